package models

import "time"

// Funções possíveis para um funcionário.
const (
	RoleDefault = "Default"
	RoleVet     = "Veterinario"
	RoleManager = "Gerente"
	RoleMaster  = "Master"
)

type Staff struct {
	ID string `gorm:"primaryKey;size:20" json:"idFuncionario"`

	Name    string `gorm:"size:100;not null" json:"nome"`
	Surname string `gorm:"size:100;not null" json:"sobrenome"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'Default'" json:"funcao"`
	Phone        string `gorm:"size:20" json:"telefone"`

	CEP        string  `gorm:"size:9;default:'Nenhum'" json:"cep"`
	Number     string  `gorm:"size:10" json:"numero"`
	Complement string  `gorm:"size:100" json:"complemento"`
	Address    *Address `gorm:"foreignKey:CEP;references:CEP;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"endereco,omitempty"`

	LoggedIn string `gorm:"size:1;default:'0'" json:"logado"`
	Avatar   string `gorm:"size:255" json:"img"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasElevatedRole diz se a função permite administrar registros de terceiros
// (produtos de outros funcionários, exclusão de contas).
func (s *Staff) HasElevatedRole() bool {
	return s.Role == RoleMaster || s.Role == RoleManager
}
