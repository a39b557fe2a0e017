package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

func main() {
	provider := "XX"
	provider = "BC"
	c := GetInstance("AES", provider) // @Provider(none) @Diagnostic(unknown-literal)
	println(c)
}
