package main

func GetInstance(alg string, provider int) string { return alg }

func main() {
	c := GetInstance("AES", 3) // @Provider(none) @Diagnostic(untyped-argument)
	println(c)
}
