package common

import (
	"net"
	"os/exec"
	"strconv"
)

const portScanRange = 100

// FindAvailablePort returns the first port from startPort on that can be
// bound on all interfaces. It falls back to startPort and lets Listen report
// the conflict.
func FindAvailablePort(startPort int) int {
	for port := startPort; port < startPort+portScanRange; port++ {
		ln, err := net.Listen("tcp4", ":"+strconv.Itoa(port))
		if err != nil {
			continue
		}
		_ = ln.Close()
		return port
	}
	return startPort
}

// OpenBrowser opens url in the platform's default browser without waiting for it.
func OpenBrowser(goos, url string) error {
	name, args := browserCommand(goos, url)
	return exec.Command(name, args...).Start()
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		return "open", []string{url}
	default:
		return "xdg-open", []string{url}
	}
}
