package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

func main() {
	provider := "CONSCRYPT_2"
	c := GetInstance("AES", provider) // @Provider(Conscrypt)
	println(c)
}
