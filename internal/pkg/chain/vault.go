package chain

import "github.com/spf13/viper"

// Vault identifies the treasury account and token mint the executor pays
// winners from.
type Vault struct {
	Address   string `json:"address"`
	TokenMint string `json:"tokenMint"`
}

func GetVault() Vault {
	return Vault{
		Address:   viper.Get("VAULT_ADDRESS").(string),
		TokenMint: viper.Get("TOKEN_MINT").(string),
	}
}
