// Package model holds the records that flow through the selection pipeline.
package model

import (
	"fmt"
	"strconv"
)

// Environment is one environment file found by the catalog.
type Environment struct {
	// Name is the file name without its .json extension.
	Name string `json:"name" yaml:"name"`
	// Path is where the file was found.
	Path string `json:"path" yaml:"path"`
}

// Server is one named entry of an environment's "databases" object.
type Server struct {
	Name     string `json:"name" yaml:"name"`
	Username string `json:"username" yaml:"username"`
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
}

// Target returns the resolved connection parameters for s.
// Values are passed through unchanged.
func (s Server) Target() Target {
	return Target{User: s.Username, Host: s.Host, Port: s.Port}
}

// Target is the (user, host, port) triple handed to ssh.
type Target struct {
	User string `json:"user" yaml:"user"`
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// Destination returns "user@host".
func (t Target) Destination() string {
	return fmt.Sprintf("%s@%s", t.User, t.Host)
}

func (t Target) PortString() string {
	return strconv.Itoa(t.Port)
}
