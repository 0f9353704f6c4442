// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package authenticated

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// domain separation key. can be anything. if you change it, past tokens will become invalid.
const Implicit = "folio session"

const sessionSubject = "portfolio session"

var errMissingSessionID = errors.New("token carries no session id")

func NewSecretKeyHex() string {
	return paseto.NewV4AsymmetricSecretKey().ExportHex()
}

// v4.public validator
type Validator struct {
	SecretKey paseto.V4AsymmetricSecretKey
}

func (psk *Validator) LoadSecretKeyFromHex(hex string) (err error) {
	psk.SecretKey, err = paseto.NewV4AsymmetricSecretKeyFromHex(hex)

	return
}

// Generate installs a fresh random key.
func (psk *Validator) Generate() {
	psk.SecretKey = paseto.NewV4AsymmetricSecretKey()
}

// SignSession returns a signed token binding sessionID until ttl elapses.
func (psk *Validator) SignSession(sessionID string, ttl time.Duration) string {
	token := paseto.NewToken()
	token.SetIssuedAt(time.Now())
	token.SetExpiration(time.Now().Add(ttl))
	token.SetSubject(sessionSubject)
	token.SetString("sid", sessionID)

	return token.V4Sign(psk.SecretKey, []byte(Implicit))
}

// VerifySession returns the session id carried by a token produced by SignSession.
func (psk *Validator) VerifySession(signed string) (string, error) {
	parser := paseto.MakeParser([]paseto.Rule{
		paseto.NotExpired(),
		paseto.Subject(sessionSubject),
	})

	token, err := parser.ParseV4Public(psk.SecretKey.Public(), signed, []byte(Implicit))
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}

	sid, err := token.GetString("sid")
	if err != nil || sid == "" {
		return "", errMissingSessionID
	}

	return sid, nil
}
