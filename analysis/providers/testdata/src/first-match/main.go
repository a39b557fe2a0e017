package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

type SunProvider struct{}

func (p *SunProvider) Name() string { return "SUN" }

func GetInstance(alg string, p Provider) string { return alg }

func first() {
	var p Provider
	c := GetInstance("AES", p) // @Provider(none) @Diagnostic(unresolved)
	println(c)
}

func second() {
	p := &BouncyCastleProvider{}
	c := GetInstance("AES", p)
	println(c)
}

func main() {
	second()
	first()
}
