package shell

import "testing"

func TestPolicyBlocks(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"sudo", "ls"}, true},
		{[]string{"apt-get", "install", "vim"}, true},
		{[]string{"npm", "install", "-g", "typescript"}, true},
		{[]string{"npm", "install", "typescript", "--global"}, true},
		{[]string{"npm", "install", "typescript"}, false},
		{[]string{"npm", "run", "dev"}, false},
		{[]string{"go", "install", "./..."}, true},
		{[]string{"go", "build", "./..."}, false},
		{[]string{"rm", "-rf", "dist"}, true},
		{[]string{"rm", "dist/index.html"}, false},
		{[]string{"ls", "-la"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := p.Blocks(tt.args); got != tt.want {
			t.Errorf("Blocks(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestRuleArgsArePrefix(t *testing.T) {
	r := Rule{Command: "git", Args: []string{"push", "origin"}}
	if !r.Matches([]string{"git", "push", "origin", "main"}) {
		t.Error("expected prefix match")
	}
	if r.Matches([]string{"git", "push"}) {
		t.Error("shorter positional list must not match")
	}
	if r.Matches([]string{"git", "pull", "origin"}) {
		t.Error("different subcommand must not match")
	}
}
