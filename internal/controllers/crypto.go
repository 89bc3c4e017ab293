package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

type CryptoController struct {
	secretKey string
}

func NewCryptoController(secretKey string) *CryptoController {
	return &CryptoController{
		secretKey: secretKey,
	}
}

func (c *CryptoController) GetSignature(query string) string {

	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(query))
	sig := hex.EncodeToString(h.Sum(nil))

	return sig
}

// SignParams signs the params sorted by key and joined as k=v&k=v.
// A "signature" key, if present, is left out.
func (c *CryptoController) SignParams(params map[string]string) string {
	return c.GetSignature(CanonicalQuery(params))
}

func CanonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, params[k]))
	}

	return strings.Join(parts, "&")
}
