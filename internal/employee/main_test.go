package employee_test

import (
	"os"
	"testing"

	"go-hris-leave/internal/shared/apperror"
)

func TestMain(m *testing.M) {
	apperror.Init()
	os.Exit(m.Run())
}
