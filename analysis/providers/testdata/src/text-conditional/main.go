package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

func main() {
	provider := "BC"
	if provider == "BC" {
		println("bouncy castle")
	}
	c := GetInstance("AES", provider) // @Provider(none) @Diagnostic(ambiguous-conditional)
	println(c)
}
