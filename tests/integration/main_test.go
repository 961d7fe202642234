// Package integration runs the version API against PostgreSQL and a temp-dir blob store.
// Set TEST_INTEGRATION=1 to enable; TEST_DATABASE_URL reuses an existing database
// instead of starting a container.
package integration

import (
	"fmt"
	"os"
	"testing"

	"github.com/123ang/iso-document/tests/testutil"
)

func TestMain(m *testing.M) {
	if os.Getenv("TEST_INTEGRATION") == "" {
		fmt.Println("integration: TEST_INTEGRATION not set, tests will be skipped")
	}

	code := m.Run()

	// コンテナは全テストで共有しているため最後に一度だけ停止する
	testutil.CleanupTestEnvironment()

	os.Exit(code)
}
