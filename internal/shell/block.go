// Package shell runs the terminal panel's commands in an in-process POSIX
// interpreter anchored to a root directory.
package shell

import (
	"slices"
	"strings"
)

// Rule blocks a command. With only Command set it blocks every invocation;
// Args must prefix the positional arguments and every Flag must be present
// for the rule to match.
type Rule struct {
	Command string
	Args    []string
	Flags   []string
}

// Matches reports whether args (argv, command first) trips the rule.
func (r Rule) Matches(args []string) bool {
	if len(args) == 0 || args[0] != r.Command {
		return false
	}
	var positional, flags []string
	for _, a := range args[1:] {
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
		} else {
			positional = append(positional, a)
		}
	}
	if len(positional) < len(r.Args) || !slices.Equal(positional[:len(r.Args)], r.Args) {
		return false
	}
	for _, f := range r.Flags {
		if !slices.Contains(flags, f) {
			return false
		}
	}
	return true
}

// Policy is a set of rules; a command is blocked when any rule matches.
type Policy []Rule

// Blocks reports whether args is blocked.
func (p Policy) Blocks(args []string) bool {
	for _, r := range p {
		if r.Matches(args) {
			return true
		}
	}
	return false
}

// deniedCommands are blocked outright in the panel.
var deniedCommands = []string{
	// Privilege escalation
	"doas", "su", "sudo",
	// System modification
	"chkconfig", "crontab", "fdisk", "mkfs", "mount", "parted",
	"reboot", "service", "shutdown", "systemctl", "umount",
	// Package managers
	"apk", "apt", "apt-get", "dnf", "pacman", "rpm", "yum", "zypper",
	// Network configuration
	"firewall-cmd", "ifconfig", "ip", "iptables", "route", "ufw",
}

// DefaultPolicy is the panel's standard policy.
func DefaultPolicy() Policy {
	p := make(Policy, 0, len(deniedCommands)+4)
	for _, c := range deniedCommands {
		p = append(p, Rule{Command: c})
	}
	return append(p,
		Rule{Command: "npm", Args: []string{"install"}, Flags: []string{"-g"}},
		Rule{Command: "npm", Args: []string{"install"}, Flags: []string{"--global"}},
		Rule{Command: "go", Args: []string{"install"}},
		Rule{Command: "rm", Flags: []string{"-rf"}},
	)
}
