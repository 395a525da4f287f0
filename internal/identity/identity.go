// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package identity generates throwaway account credentials for
// verification runs. Every run registers a real account against the
// shared deployment and nothing is cleaned up afterwards, so the email
// must never repeat: the address carries the start timestamp for
// readability plus a random suffix so that runs started within the same
// second cannot collide either.
package identity

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	defaultName     = "Test User"
	defaultPassword = "password123"
	defaultPhone    = "1234567890"
	emailDomain     = "example.com"
)

// Identity is the generated account used by one scenario run.
type Identity struct {
	Name     string
	Email    string
	Password string

	// Phone is used when the scenario creates a contact record.
	Phone string
}

// New returns a fresh identity stamped with the current time.
func New() Identity {
	return At(time.Now())
}

// At returns an identity stamped with the given time. The uuid suffix
// keeps two identities distinct even for equal timestamps.
func At(now time.Time) Identity {
	suffix := uuid.NewString()[:8]
	return Identity{
		Name:     defaultName,
		Email:    fmt.Sprintf("test_user_%d_%s@%s", now.Unix(), suffix, emailDomain),
		Password: defaultPassword,
		Phone:    defaultPhone,
	}
}

// Seeded returns the fixed identity that the flow-builder scenario uses;
// the deployment is expected to have this account provisioned.
func Seeded() Identity {
	return Identity{
		Name:     defaultName,
		Email:    "test@test.com",
		Password: "password",
		Phone:    defaultPhone,
	}
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail reports whether the address is syntactically acceptable to
// the registration form.
func ValidEmail(addr string) bool {
	return emailRE.MatchString(addr)
}
