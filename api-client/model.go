package apiclient

import "strings"

type Chain string

var (
	ETH       Chain = "ETHEREUM"
	MATIC     Chain = "MATIC"
	ARBITRUM  Chain = "ARBITRUM"
	AVALANCHE Chain = "AVALANCHE"
	FANTOM    Chain = "FANTOM"
	KLAYTN    Chain = "KLAYTN"
)

var Chains = map[Chain]string{ETH: "1", MATIC: "137", ARBITRUM: "42161", AVALANCHE: "43114", FANTOM: "250", KLAYTN: "8217"}

// ID returns the numeric chain id Covalent expects in request paths. Known
// chain names are resolved case-insensitively; anything else is passed through
// so raw ids like "8217" keep working.
func (c Chain) ID() string {
	if id, ok := Chains[Chain(strings.ToUpper(string(c)))]; ok {
		return id
	}
	return string(c)
}
