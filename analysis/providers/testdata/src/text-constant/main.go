package main

func GetInstance(alg string, provider string) string { return alg + "/" + provider }

const pqc = "BCPQC"

func main() {
	c := GetInstance("AES", pqc) // @Provider(BouncyCastle-JCA)
	println(c)
}
