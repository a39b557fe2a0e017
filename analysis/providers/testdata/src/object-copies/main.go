package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

type SunProvider struct{}

func (p *SunProvider) Name() string { return "SUN" }

func GetInstance(alg string, p Provider) string { return alg }

func main() {
	var p Provider = new(BouncyCastleProvider)
	q := p
	r := Provider(q)
	c := GetInstance("AES", r) // @Provider(BouncyCastle-JCA)
	println(c)
}
