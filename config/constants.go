package config

const (
	DefaultRPCEndpoint = "http://localhost:26657"
	DefaultChainID     = "veil-mainnet-1"
	DefaultGasToken    = "VEIL"
	DefaultGasLimit    = 200_000
)
