package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

type SunProvider struct{}

func (p *SunProvider) Name() string { return "SUN" }

func GetInstance(alg string, p Provider) string { return alg }

func main() {
	var p Provider = &BouncyCastleProvider{}
	for _, p = range []Provider{&SunProvider{}} {
	}
	c := GetInstance("AES", p) // @Provider(none) @Diagnostic(ambiguous-allocation)
	println(c)
}
