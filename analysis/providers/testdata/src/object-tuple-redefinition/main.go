package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

type SunProvider struct{}

func (p *SunProvider) Name() string { return "SUN" }

func GetInstance(alg string, p Provider) string { return alg }

func makeSun() (Provider, error) { return &SunProvider{}, nil }

func main() {
	var p Provider = &BouncyCastleProvider{}
	p, err := makeSun()
	if err != nil {
		return
	}
	c := GetInstance("AES", p) // @Provider(none) @Diagnostic(unrecognized-type)
	println(c)
}
