package models

import "time"

// SentinelCEP marca contas cadastradas sem endereço.
const SentinelCEP = "Nenhum"

// Address é chaveado pelo CEP e compartilhado por contas e funcionários.
// Linhas são criadas sob demanda quando um CEP inédito aparece.
type Address struct {
	CEP      string `gorm:"primaryKey;size:9" json:"cep"`
	Street   string `gorm:"size:255" json:"rua"`
	District string `gorm:"size:100" json:"bairro"`
	City     string `gorm:"size:100" json:"cidade"`
	State    string `gorm:"size:20" json:"estado"`

	Accounts []Account `gorm:"foreignKey:CEP;references:CEP" json:"usuarios,omitempty"`
	Staff    []Staff   `gorm:"foreignKey:CEP;references:CEP" json:"funcionarios,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
