package config

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"netquiz/internal/domain"
)

// ServerInfoFile is read from the client's working directory.
const ServerInfoFile = "server_info.dat"

// Endpoint is where the client connects.
type Endpoint struct {
	Host string
	Port int
}

// DefaultEndpoint is used whenever server_info.dat is missing or unusable.
var DefaultEndpoint = Endpoint{Host: "localhost", Port: 1234}

func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// LoadServerInfo reads host (line 1) and port (line 2) from path. On any
// problem it returns DefaultEndpoint together with an error wrapping
// domain.ErrConfigMissing, so callers can connect anyway and show a notice.
func LoadServerInfo(path string) (Endpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultEndpoint, fmt.Errorf("%w: %v", domain.ErrConfigMissing, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < 2 {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return DefaultEndpoint, fmt.Errorf("%w: read %s: %v", domain.ErrConfigMissing, path, err)
	}
	if len(lines) < 2 || lines[0] == "" {
		return DefaultEndpoint, fmt.Errorf("%w: %s needs host and port lines", domain.ErrConfigMissing, path)
	}

	port, err := strconv.Atoi(lines[1])
	if err != nil || port <= 0 || port > 65535 {
		return DefaultEndpoint, fmt.Errorf("%w: bad port %q in %s", domain.ErrConfigMissing, lines[1], path)
	}
	return Endpoint{Host: lines[0], Port: port}, nil
}
