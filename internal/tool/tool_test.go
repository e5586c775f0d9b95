package tool_test

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jypelle/yuvbridge/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFileExists(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "cert.pem")

	exists, err := tool.IsFileExists(name)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, os.WriteFile(name, nil, 0600))
	exists, err = tool.IsFileExists(name)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSelfSignedCertGenerate(t *testing.T) {
	dir := t.TempDir()
	keyFilename := filepath.Join(dir, "key.pem")
	certFilename := filepath.Join(dir, "cert.pem")

	cert := tool.SelfSignedCert{
		Organization: "yuvbridge",
		CommonName:   "yuvbridge input",
		Hostnames:    []string{"127.0.0.1", "device.local"},
		Validity:     24 * time.Hour,
	}
	require.NoError(t, cert.Generate(keyFilename, certFilename))

	_, err := tls.LoadX509KeyPair(certFilename, keyFilename)
	require.NoError(t, err)

	raw, err := os.ReadFile(certFilename)
	require.NoError(t, err)
	block, _ := pem.Decode(raw)
	require.NotNil(t, block)
	parsed, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	assert.Equal(t, "yuvbridge input", parsed.Subject.CommonName)
	assert.Equal(t, []string{"device.local"}, parsed.DNSNames)
	assert.Len(t, parsed.IPAddresses, 1)
}
