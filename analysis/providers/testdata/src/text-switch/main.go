package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

func main() {
	provider := "BC"
	switch provider {
	case "BC", "BCPQC":
		println("bouncy castle")
	}
	c := GetInstance("AES", provider) // @Provider(none) @Diagnostic(ambiguous-multiway)
	println(c)
}
