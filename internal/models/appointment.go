package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"idAgendamento"`

	ScheduledAt time.Time `gorm:"not null;index" json:"dataHora"`
	Notes       string    `gorm:"size:255" json:"observacoes"`

	PetID uint `gorm:"not null" json:"idPet"`
	Pet   *Pet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pet,omitempty"`

	ServiceID uint     `gorm:"not null;index" json:"idServico"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"servico,omitempty"`

	AccountCPF string   `gorm:"size:11;not null" json:"idUsuario"`
	Account    *Account `gorm:"foreignKey:AccountCPF;references:CPF;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"usuario,omitempty"`

	Status string `gorm:"size:20;default:'Agendado'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
