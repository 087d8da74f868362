package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"snake-game/ai"
	"snake-game/game"
)

func TestRedirectLogRestoresStderr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "snake.log")
	restore, err := redirectLog(path)
	if err != nil {
		t.Fatalf("redirectLog: %v", err)
	}
	log.Print("while the screen is up")
	restore()

	if log.Writer() != os.Stderr {
		t.Errorf("log writer = %v after restore, want os.Stderr", log.Writer())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "while the screen is up") {
		t.Errorf("log file = %q, missing the redirected line", data)
	}
}

func TestNewPolicy(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		wantNil bool
		wantErr bool
	}{
		{"greedy", true, false},
		{"qtable", false, false},
		{"sarsa", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := newPolicy(tt.name, dir, game.NewRand(1))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (policy == nil) != tt.wantNil {
				t.Errorf("policy = %v, wantNil %v", policy, tt.wantNil)
			}
		})
	}

	policy, err := newPolicy("qtable", dir, game.NewRand(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := policy.(*ai.QLearning); !ok {
		t.Errorf("qtable policy is %T", policy)
	}
}
