package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

func main() {
	provider := "BC"
	oldprovider := "SUN"
	if oldprovider != "" {
		println(oldprovider)
	}
	c := GetInstance("AES", provider) // @Provider(BouncyCastle-JCA)
	println(c)
}
