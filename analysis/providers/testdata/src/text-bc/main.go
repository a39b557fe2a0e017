package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

func main() {
	provider := "BC"
	c := GetInstance("AES", provider) // @Provider(BouncyCastle-JCA)
	println(c)
}
