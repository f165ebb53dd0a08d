package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 15 * time.Second}

// callAPI performs one logical operation against the server and unwraps the
// single-object envelope: either an "error" string or a field named after
// the operation.
func callAPI(serverURL, method, op string, params url.Values) (json.RawMessage, error) {
	endpoint := serverURL + "/api/" + op

	var resp *http.Response
	var err error
	if method == http.MethodGet {
		resp, err = httpClient.Get(endpoint + "?" + params.Encode())
	} else {
		resp, err = httpClient.Post(endpoint,
			"application/x-www-form-urlencoded", strings.NewReader(params.Encode()))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if raw, ok := envelope["error"]; ok {
		var msg string
		_ = json.Unmarshal(raw, &msg)
		return nil, fmt.Errorf("%s: %s", op, msg)
	}
	result, ok := envelope[op]
	if !ok {
		return nil, fmt.Errorf("%s: response missing result field", op)
	}
	return result, nil
}

// storedCredential is the locally cached binding from a login.
type storedCredential struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

func credentialPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "heartbeat", "credentials.json"), nil
}

func saveCredential(cred *storedCredential) error {
	path, err := credentialPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, _ := json.MarshalIndent(cred, "", "  ")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credential: %w", err)
	}
	return nil
}

func loadCredential() (*storedCredential, error) {
	path, err := credentialPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no stored credential (run 'heartbeatctl login' first): %w", err)
	}
	cred := &storedCredential{}
	if err := json.Unmarshal(data, cred); err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}
	return cred, nil
}

// clearCredential removes the cached binding, used after auth failures.
func clearCredential() {
	if path, err := credentialPath(); err == nil {
		_ = os.Remove(path)
	}
}
