package main

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

func GetInstance(alg string, p Provider) string { return alg }

func main() {
	var p Provider = &BouncyCastleProvider{}
	println(GetInstance("AES", p))
	c := GetInstance("SHA-256", p)
	println(c)
}
