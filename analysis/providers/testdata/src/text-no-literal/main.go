package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

func name() string { return "BC" }

func main() {
	provider := name()
	c := GetInstance("AES", provider) // @Provider(none) @Diagnostic(no-literal)
	println(c)
}
