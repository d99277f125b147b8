// Copyright 2023 Google LLC
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

// Package secrets encrypts and decrypts the data values of Secret resources
// so that plaintext credentials are never committed to the sync repository.
//
// Values are encrypted with age using a scrypt passphrase recipient and
// stored in ASCII armor. Encryption is applied per data value, so a spec file
// holding an encrypted Secret still parses and diffs like any other resource.
package secrets

import (
	"bytes"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"atomist.com/k8sync/pkg/kinds"
	"atomist.com/k8sync/pkg/status"
)

// Cipher transforms Secret data values with a shared sync key. The zero
// value (no key) passes objects through unchanged, so callers need not
// special-case repositories without an encryption key.
type Cipher struct {
	key string
}

// New returns a Cipher for the given sync key. An empty key disables
// encryption.
func New(key string) Cipher {
	return Cipher{key: key}
}

// Enabled reports whether a sync key is configured.
func (c Cipher) Enabled() bool {
	return c.key != ""
}

// Encrypt returns a copy of obj with every data value encrypted. Objects
// that are not Secrets, Secrets without data, and Ciphers without a key are
// returned unchanged. Only the data map is transformed.
func (c Cipher) Encrypt(obj *unstructured.Unstructured) (*unstructured.Unstructured, status.Error) {
	return c.mapDataValues(obj, "encrypt", c.encryptValue)
}

// Decrypt is the inverse of Encrypt. Decrypting a value that was encrypted
// with a different key fails with a SecretCipherError.
func (c Cipher) Decrypt(obj *unstructured.Unstructured) (*unstructured.Unstructured, status.Error) {
	return c.mapDataValues(obj, "decrypt", c.decryptValue)
}

func (c Cipher) mapDataValues(obj *unstructured.Unstructured, verb string, op func(string) (string, error)) (*unstructured.Unstructured, status.Error) {
	if !c.Enabled() || obj.GroupVersionKind().GroupKind() != kinds.Secret().GroupKind() {
		return obj, nil
	}
	data, found, err := unstructured.NestedStringMap(obj.Object, "data")
	if err != nil {
		return nil, status.SecretCipherError(err, "unable to read data of Secret %q", obj.GetName())
	}
	if !found || len(data) == 0 {
		return obj, nil
	}
	for key, value := range data {
		transformed, err := op(value)
		if err != nil {
			return nil, status.SecretCipherError(err, "unable to %s data key %q of Secret %q", verb, key, obj.GetName())
		}
		data[key] = transformed
	}
	result := obj.DeepCopy()
	if err := unstructured.SetNestedStringMap(result.Object, data, "data"); err != nil {
		return nil, status.SecretCipherError(err, "unable to write data of Secret %q", obj.GetName())
	}
	return result, nil
}

func (c Cipher) encryptValue(plaintext string) (string, error) {
	recipient, err := age.NewScryptRecipient(c.key)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)
	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	if err := armorWriter.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c Cipher) decryptValue(ciphertext string) (string, error) {
	identity, err := age.NewScryptIdentity(c.key)
	if err != nil {
		return "", err
	}
	r, err := age.Decrypt(armor.NewReader(strings.NewReader(ciphertext)), identity)
	if err != nil {
		return "", err
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
