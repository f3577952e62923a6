package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlug(t *testing.T) {
	v := NewInputValidator()

	slug, err := v.ValidateSlug(" /The-Office/ ")
	require.NoError(t, err)
	assert.Equal(t, "the-office", slug)

	for _, bad := range []string{"", "../etc", "a b", "slug?x=1", "-lead"} {
		_, err := v.ValidateSlug(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidatePath(t *testing.T) {
	v := NewInputValidator()

	p, err := v.ValidatePath("/category/action/")
	require.NoError(t, err)
	assert.Equal(t, "category/action", p)

	for _, bad := range []string{"", "category/../admin", "category//action", "a/b/c/d/e/f/g", "cat?x"} {
		_, err := v.ValidatePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateLetter(t *testing.T) {
	v := NewInputValidator()

	for in, want := range map[string]string{"A": "a", "z": "z", "7": "7", "0-9": "0-9"} {
		got, err := v.ValidateLetter(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", "ab", "%", "1-9"} {
		_, err := v.ValidateLetter(bad)
		assert.Error(t, err, bad)
	}
}

func TestSanitizeQuery(t *testing.T) {
	v := NewInputValidator()

	q, err := v.SanitizeQuery("  la casa\x00 de papel ")
	require.NoError(t, err)
	assert.Equal(t, "la casa de papel", q)

	_, err = v.SanitizeQuery("   ")
	assert.Error(t, err)
}

func TestValidateTargetURL(t *testing.T) {
	v := NewInputValidator()
	base := "https://www.example.org"

	u, err := v.ValidateTargetURL("/episode/show-1x2/", base)
	require.NoError(t, err)
	assert.Equal(t, "https://www.example.org/episode/show-1x2/", u)

	u, err = v.ValidateTargetURL("https://example.org/movies/x/", base)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/movies/x/", u)

	_, err = v.ValidateTargetURL("https://evil.test/", base)
	assert.Error(t, err)

	_, err = v.ValidateTargetURL("file:///etc/passwd", base)
	assert.Error(t, err)
}

func TestValidateEmbedURL(t *testing.T) {
	v := NewInputValidator()

	u, err := v.ValidateEmbedURL("//player.test/e/abc")
	require.NoError(t, err)
	assert.Equal(t, "https://player.test/e/abc", u)

	_, err = v.ValidateEmbedURL("/relative")
	assert.Error(t, err)

	u, err = v.ValidateEmbedURL("https://93.184.216.34/embed/1")
	require.NoError(t, err)
	assert.Equal(t, "https://93.184.216.34/embed/1", u)
}

func TestValidateEmbedURL_InternalHosts(t *testing.T) {
	v := NewInputValidator()

	blocked := []string{
		"http://127.0.0.1:8080/",
		"http://localhost/admin",
		"http://api.localhost/",
		"http://169.254.169.254/latest/meta-data/",
		"http://metadata.google.internal/computeMetadata/v1/",
		"http://10.0.0.5/",
		"http://172.16.3.4/",
		"http://192.168.1.1/",
		"http://100.64.0.1/",
		"http://0.0.0.0/",
		"http://[::1]/",
		"http://[fe80::1]/",
		"http://[fd00::1]/",
		"http://[::ffff:127.0.0.1]/",
		"http://2130706433/",
		"http://0x7f000001/",
		"http://printer.local/",
	}
	for _, raw := range blocked {
		_, err := v.ValidateEmbedURL(raw)
		assert.Error(t, err, raw)
	}
}

func TestMaskURL(t *testing.T) {
	v := NewInputValidator()
	assert.Equal(t, "https://proxy.test/fetch?***", v.MaskURL("https://user:pw@proxy.test/fetch?token=secret"))
	assert.Equal(t, "[invalid]", v.MaskURL("::"))
}
