package crypto

type Provider interface{ Name() string }

type BouncyCastleProvider struct{}

func (p *BouncyCastleProvider) Name() string { return "BC" }

func NewBouncyCastle() Provider { return &BouncyCastleProvider{} }

func GetInstance(alg string, p Provider) string { return alg + "/" + p.Name() }
