package main

import (
	"context"
	"errors"
	"testing"

	"github.com/autosplice/autosplice/pkg/composer"
)

func TestExitCode(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	childKilled := &composer.ProcessError{Result: composer.Result{
		Command:  composer.Command{Bin: "composer", Args: []string{"dump-autoload"}},
		ExitCode: -1,
	}}

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want int
	}{
		{"plain failure", context.Background(), errors.New("boom"), exitFailure},
		{"canceled error", context.Background(), context.Canceled, exitInterrupted},
		{"signal killed the child", canceled, childKilled, exitInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.ctx, tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
