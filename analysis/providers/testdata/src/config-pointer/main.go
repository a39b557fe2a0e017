package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

type SunProvider struct{}

func (p *SunProvider) Name() string { return "SUN" }

func GetInstance(alg string, p Provider) string { return alg }

type factory struct{ p Provider }

func (f *factory) provider() Provider { return f.p }

func main() {
	f := &factory{p: &BouncyCastleProvider{}}
	c := GetInstance("AES", f.provider()) // @Provider(BouncyCastle-JCA)
	println(c)
}
