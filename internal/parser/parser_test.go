package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSource = `
struct Widget {
	Widget(int value);
	int getValue();
};

int add(int a, int b) {
	return a + b;
}

int main() {
	Widget w(1);
	return add(1, 2);
}
`

func writeFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "widget.cpp")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSource), 0o644))

	return path
}

func TestParse_ValidFileSucceeds(t *testing.T) {
	path := writeFixture(t)

	tu, err := Parse(Shared(), path, []string{"-std=c++17"})
	require.NoError(t, err)
	require.NotNil(t, tu)
	defer tu.Dispose()

	assert.Equal(t, path, tu.Filename())
}

func TestParse_MissingFileFails(t *testing.T) {
	_, err := Parse(Shared(), filepath.Join(t.TempDir(), "does-not-exist.cpp"), nil)

	require.Error(t, err)
}

func TestTU_DiagnosticsOnCleanSourceIsEmpty(t *testing.T) {
	path := writeFixture(t)

	tu, err := Parse(Shared(), path, []string{"-std=c++17"})
	require.NoError(t, err)
	defer tu.Dispose()

	diags := tu.Diagnostics()

	assert.Empty(t, diags)
}

func TestTU_DiagnosticsReportsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cpp")
	require.NoError(t, os.WriteFile(path, []byte("int main() { return ; } }"), 0o644))

	tu, err := Parse(Shared(), path, []string{"-std=c++17"})
	require.NoError(t, err)
	defer tu.Dispose()

	diags := tu.Diagnostics()

	assert.NotEmpty(t, diags)
}

func TestTU_CompleteAtFunctionCall(t *testing.T) {
	path := writeFixture(t)

	tu, err := Parse(Shared(), path, []string{"-std=c++17"})
	require.NoError(t, err)
	defer tu.Dispose()

	raws := tu.Complete(13, 9, nil) // the "add" call in return add(1, 2)

	assert.NotEmpty(t, raws)
}

func TestTU_ResourceUsageReturnsEntries(t *testing.T) {
	path := writeFixture(t)

	tu, err := Parse(Shared(), path, []string{"-std=c++17"})
	require.NoError(t, err)
	defer tu.Dispose()

	usage := tu.ResourceUsage()

	assert.NotEmpty(t, usage)
}

func TestTU_ReparseWithUnsavedBuffer(t *testing.T) {
	path := writeFixture(t)

	tu, err := Parse(Shared(), path, []string{"-std=c++17"})
	require.NoError(t, err)
	defer tu.Dispose()

	modified := fixtureSource + "\nint extraFunction() { return 0; }\n"
	tu.Reparse(&Buffer{Path: path, Data: []byte(modified)})

	diags := tu.Diagnostics()
	assert.Empty(t, diags)
}

func TestSharedIndex_IsSingleton(t *testing.T) {
	a := Shared()
	b := Shared()

	assert.Same(t, a, b)
}

func TestRefreshShared_ReplacesIndex(t *testing.T) {
	before := Shared()

	RefreshShared()

	after := Shared()

	assert.NotSame(t, before, after)
}
