package platform_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/fenilsonani/tidytree/internal/platform"
	"github.com/fenilsonani/tidytree/internal/security"
)

func TestLinuxRootHomeContentsDeletable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Unix paths")
	}

	pv := security.NewPathValidator(platform.LinuxInfo("/root", "root"))

	tests := []struct {
		name    string
		path    string
		blocked bool
	}{
		{"new file under documents", "/root/Documents/new.txt", false},
		{"file directly in home", "/root/old.log", false},
		{"home itself", "/root", true},
		{"documents itself", "/root/Documents", true},
		{"system binary", "/usr/bin/ls", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.Validate(tt.path)
			if tt.blocked {
				if !errors.Is(err, security.ErrSafetyViolation) {
					t.Errorf("expected safety violation, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
