package main

import "github.com/ualberta-smr/CryptoAnalysis/analysis/testdata/src/loadprog/crypto"

func main() {
	c := crypto.GetInstance("AES", crypto.NewBouncyCastle())
	println(c)
}
