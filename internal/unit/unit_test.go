package unit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSource = `
int add(int a, int b) {
	return a + b;
}

struct Point {
	int x;
	int y;
};

int main() {
	Point p;
	return add(p.x, p.y);
}
`

func writeFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "point.cpp")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSource), 0o644))

	return path
}

func TestNew_ValidFileSucceeds(t *testing.T) {
	path := writeFixture(t)

	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	require.NotNil(t, tu)
	defer tu.Close()

	assert.Equal(t, path, tu.Filename())
}

func TestNew_MissingFileFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.cpp"), nil, Options{})

	assert.Error(t, err)
}

func TestTranslationUnit_DiagnosticsUnboundedWait(t *testing.T) {
	path := writeFixture(t)
	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	defer tu.Close()

	diags, err := tu.Diagnostics(-1)

	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestTranslationUnit_DiagnosticsTimesOutWhenLocked(t *testing.T) {
	path := writeFixture(t)
	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	defer tu.Close()

	tu.mu.Lock()
	defer tu.mu.Unlock()

	_, err = tu.Diagnostics(5 * time.Millisecond)

	assert.Error(t, err)
}

func TestTranslationUnit_TypeAtField(t *testing.T) {
	path := writeFixture(t)
	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	defer tu.Close()

	typ := tu.TypeAt(13, 15) // p.x within add(p.x, p.y)

	assert.NotEmpty(t, typ)
}

func TestTranslationUnit_DefinitionAtCallSite(t *testing.T) {
	path := writeFixture(t)
	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	defer tu.Close()

	def := tu.DefinitionAt(13, 9) // the "add" call in return add(p.x, p.y)

	assert.Contains(t, def, path)
}

func TestTranslationUnit_FindUsesOfAdd(t *testing.T) {
	path := writeFixture(t)
	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	defer tu.Close()

	uses := tu.FindUses(2, 5, path) // the "add" declaration itself

	assert.NotEmpty(t, uses)
}

func TestTranslationUnit_ResourceUsage(t *testing.T) {
	path := writeFixture(t)
	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	defer tu.Close()

	usage := tu.ResourceUsage()

	assert.NotEmpty(t, usage)
}

func TestTranslationUnit_CompleteAtFiltersPrefix(t *testing.T) {
	path := writeFixture(t)
	tu, err := New(path, []string{"-std=c++17"}, Options{})
	require.NoError(t, err)
	defer tu.Close()

	all := tu.CompleteAt(13, 15, "", nil)
	filtered := tu.CompleteAt(13, 15, "zzz_never_a_real_identifier", nil)

	assert.NotEmpty(t, all)
	assert.Empty(t, filtered)
}
