package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

// Document is the persisted layout of the ledger, shared by every store.
type Document struct {
	Usuarios     []UserRecord    `json:"usuarios"`
	Contas       []AccountRecord `json:"contas"`
	Saldo        json.Number     `json:"saldo"`
	Extrato      string          `json:"extrato"`
	NumeroSaques int             `json:"numero_saques"`
}

// UserRecord is a persisted user.
type UserRecord struct {
	Nome           string `json:"nome"`
	DataNascimento string `json:"data_nascimento"`
	CPF            string `json:"cpf"`
	Endereco       string `json:"endereco"`
}

// AccountRecord is a persisted account. A missing "ativa" reads as active.
type AccountRecord struct {
	Agencia     string     `json:"agencia"`
	NumeroConta string     `json:"numero_conta"`
	Usuario     UserRecord `json:"usuario"`
	Ativa       *bool      `json:"ativa"`
}

// NewDocument converts ledger state to its persisted layout.
func NewDocument(state domain.State) Document {
	doc := Document{
		Usuarios:     make([]UserRecord, 0, len(state.Users)),
		Contas:       make([]AccountRecord, 0, len(state.Accounts)),
		Saldo:        json.Number(state.Balance.String()),
		NumeroSaques: state.WithdrawalsToday,
	}
	for _, u := range state.Users {
		doc.Usuarios = append(doc.Usuarios, userRecord(u))
	}
	for _, a := range state.Accounts {
		active := a.Active
		doc.Contas = append(doc.Contas, AccountRecord{
			Agencia:     a.BranchCode,
			NumeroConta: a.Number,
			Usuario:     userRecord(a.Owner),
			Ativa:       &active,
		})
	}

	var b strings.Builder
	for _, line := range state.Statement {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	doc.Extrato = b.String()
	return doc
}

// State converts the persisted layout back to ledger state.
func (d Document) State() (domain.State, error) {
	state := domain.EmptyState()

	if d.Saldo != "" {
		balance, err := decimal.NewFromString(d.Saldo.String())
		if err != nil {
			return domain.State{}, fmt.Errorf("saldo: %w", err)
		}
		state.Balance = balance
	}
	if d.NumeroSaques < 0 {
		return domain.State{}, errors.New("numero_saques: negative count")
	}
	state.WithdrawalsToday = d.NumeroSaques

	for _, line := range strings.Split(d.Extrato, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		state.Statement = append(state.Statement, line)
	}
	for _, u := range d.Usuarios {
		state.Users = append(state.Users, u.user())
	}
	for _, c := range d.Contas {
		active := true
		if c.Ativa != nil {
			active = *c.Ativa
		}
		state.Accounts = append(state.Accounts, domain.Account{
			BranchCode: c.Agencia,
			Number:     c.NumeroConta,
			Owner:      c.Usuario.user(),
			Active:     active,
		})
	}
	return state, nil
}

// EncodeDocument renders state as indented JSON.
func EncodeDocument(state domain.State) ([]byte, error) {
	return json.MarshalIndent(NewDocument(state), "", "  ")
}

// DecodeDocument parses a persisted document.
func DecodeDocument(data []byte) (domain.State, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.State{}, err
	}
	return doc.State()
}

func userRecord(u domain.User) UserRecord {
	return UserRecord{
		Nome:           u.FullName,
		DataNascimento: u.BirthDate,
		CPF:            u.NationalID,
		Endereco:       u.Address,
	}
}

func (r UserRecord) user() domain.User {
	return domain.User{
		FullName:   r.Nome,
		BirthDate:  r.DataNascimento,
		NationalID: r.CPF,
		Address:    r.Endereco,
	}
}
