package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

type SunProvider struct{}

func (p *SunProvider) Name() string { return "SUN" }

func GetInstance(alg string, p Provider) string { return alg }

func main() {
	var p Provider
	if len(alg()) > 3 {
		p = &BouncyCastleProvider{}
	} else {
		p = &SunProvider{}
	}
	c := GetInstance(alg(), p) // @Provider(none) @Diagnostic(ambiguous-allocation)
	println(c)
}

func alg() string { return "AES" }
