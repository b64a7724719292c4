// Package envfile reads environment files: JSON documents whose top-level
// "databases" object maps server names to connection records.
//
//	{
//	  "databases": {
//	    "db1": {"username": "deploy", "server": "10.0.0.5", "port": "2222"}
//	  }
//	}
package envfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/treykane/envssh/internal/apperr"
	"github.com/treykane/envssh/internal/model"
	"github.com/treykane/envssh/internal/util"
)

// Path returns root + name + ".json". root is used as given, so it should
// end in a separator.
func Path(root, name string) string {
	return root + name + util.EnvironmentExt
}

// Load parses the environment file for name under root.
func Load(root, name string, defaultPort int) ([]model.Server, error) {
	return LoadFile(Path(root, name), defaultPort)
}

// LoadFile parses the environment file at path.
func LoadFile(path string, defaultPort int) ([]model.Server, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.New(apperr.ParseError, "unable to open environment file "+path, err)
	}
	defer f.Close()
	return Parse(path, f, defaultPort)
}

// Parse reads an environment document from r. Servers are returned in the
// order they are declared. Any malformed record fails the whole document.
// source names the document in error messages.
func Parse(source string, r io.Reader, defaultPort int) ([]model.Server, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperr.New(apperr.ParseError, "read "+source, err)
	}
	if !json.Valid(data) {
		return nil, apperr.New(apperr.ParseError, source+" is invalid JSON", syntaxError(data))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if !openObject(dec) {
		return nil, apperr.New(apperr.ParseError, source+" should have a 'databases' key", nil)
	}

	var (
		servers []model.Server
		found   bool
	)
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return nil, apperr.New(apperr.ParseError, "read "+source, err)
		}
		if key != "databases" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, apperr.New(apperr.ParseError, "read "+source, err)
			}
			continue
		}
		if found {
			return nil, apperr.New(apperr.ParseError, source+" declares 'databases' more than once", nil)
		}
		found = true
		servers, err = decodeDatabases(source, dec, defaultPort)
		if err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, apperr.New(apperr.ParseError, source+" should have a 'databases' key", nil)
	}
	return servers, nil
}

func decodeDatabases(source string, dec *json.Decoder, defaultPort int) ([]model.Server, error) {
	if !openObject(dec) {
		return nil, apperr.New(apperr.ParseError, source+": 'databases' must be an object", nil)
	}
	servers := []model.Server{}
	seen := map[string]bool{}
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return nil, apperr.New(apperr.ParseError, "read "+source, err)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, apperr.New(apperr.ParseError, "read "+source, err)
		}
		if seen[name] {
			return nil, apperr.New(apperr.ParseError, fmt.Sprintf("%s: server %q is declared more than once", source, name), nil)
		}
		seen[name] = true

		s, err := decodeServer(name, raw, defaultPort)
		if err != nil {
			return nil, apperr.New(apperr.ParseError, source, err)
		}
		servers = append(servers, s)
	}
	// Closing brace of "databases".
	if _, err := dec.Token(); err != nil {
		return nil, apperr.New(apperr.ParseError, "read "+source, err)
	}
	return servers, nil
}

func decodeServer(name string, raw json.RawMessage, defaultPort int) (model.Server, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return model.Server{}, fmt.Errorf("server %q must be an object", name)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.Server{}, fmt.Errorf("server %q: %w", name, err)
	}
	username, ok := stringField(fields, "username")
	if !ok {
		return model.Server{}, fmt.Errorf("server %q is missing a string 'username'", name)
	}
	host, ok := stringField(fields, "server")
	if !ok {
		return model.Server{}, fmt.Errorf("server %q is missing a string 'server'", name)
	}
	return model.Server{
		Name:     name,
		Username: username,
		Host:     host,
		Port:     DecodePort(fields["port"], defaultPort),
	}, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw := bytes.TrimSpace(fields[key])
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// openObject consumes the next token and reports whether it opened an object.
func openObject(dec *json.Decoder) bool {
	tok, err := dec.Token()
	if err != nil {
		return false
	}
	d, ok := tok.(json.Delim)
	return ok && d == '{'
}

func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.New("expected object key")
	}
	return key, nil
}

func syntaxError(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}
