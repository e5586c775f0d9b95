package tool

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/go-errors/errors"
)

// SelfSignedCert describes the certificate the api serves when no real one
// is installed on the device.
type SelfSignedCert struct {
	Organization string
	CommonName   string
	Hostnames    []string
	Validity     time.Duration
}

// Generate writes a P-256 key and a self-signed server certificate.
func (c SelfSignedCert) Generate(keyFilename, certFilename string) error {
	notBefore := time.Now()
	notAfter := notBefore.Add(c.Validity)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return errors.WrapPrefix(err, "generate key", 0)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return errors.WrapPrefix(err, "serial number", 0)
	}

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{c.Organization},
			CommonName:   c.CommonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	for _, h := range c.Hostnames {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return errors.WrapPrefix(err, "create certificate", 0)
	}

	keyBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return errors.WrapPrefix(err, "marshal key", 0)
	}
	if err = writePem(keyFilename, "EC PRIVATE KEY", keyBytes, 0600); err != nil {
		return err
	}
	return writePem(certFilename, "CERTIFICATE", derBytes, 0644)
}

func writePem(filename string, blockType string, data []byte, perm os.FileMode) error {
	out, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if err = pem.Encode(out, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		out.Close()
		return errors.Wrap(err, 0)
	}
	if err = out.Close(); err != nil {
		return errors.Wrap(err, 0)
	}
	return nil
}
