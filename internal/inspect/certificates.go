package inspect

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"time"

	certificatesv1 "k8s.io/api/certificates/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// csrPendingGrace is the CERT-001 threshold for a CSR stuck Pending.
const csrPendingGrace = 24 * time.Hour

const certExpiryWarnDays = 30

// InspectCertificates evaluates CertificateSigningRequest health and
// decodes every TLS Secret's tls.crt to check expiry (§4.3
// CERT-001..CERT-003). now is injected so expiry math is deterministic in
// tests.
func InspectCertificates(csrs []certificatesv1.CertificateSigningRequest, tlsSecrets []corev1.Secret, now time.Time) report.InspectionResult {
	res := newResult(report.TypeCertificates)

	var checks []report.CheckResult
	var issues []report.Issue
	var table []report.CertificateRow

	for _, csr := range csrs {
		var status string
		for _, cond := range csr.Status.Conditions {
			switch cond.Type {
			case certificatesv1.CertificateDenied:
				status = "Denied"
			case certificatesv1.CertificateFailed:
				status = "Failed"
			case certificatesv1.CertificateApproved:
				if status == "" {
					status = "Approved"
				}
			}
		}
		abnormal := status == "Denied" || status == "Failed"
		if status == "" && now.Sub(csr.CreationTimestamp.Time) > csrPendingGrace {
			abnormal = true
			status = "Pending"
		}
		if abnormal {
			issue := report.Issue{
				Severity: report.Warning, Category: "certificates", RuleCode: "CERT-001",
				Description: fmt.Sprintf("CertificateSigningRequest %s is %s", csr.Name, status), Resource: csr.Name,
				Recommendation: "review and approve, deny, or delete the stale request",
			}
			checks = append(checks, checkFromIssues("CertificateSigningRequest", csr.Name, []report.Issue{issue}))
			issues = append(issues, issue)
		}
	}

	for _, secret := range tlsSecrets {
		ref := secret.Namespace + "/" + secret.Name
		cert, err := decodeLeafCert(secret.Data["tls.crt"])
		if err != nil {
			issue := report.Issue{
				Severity: report.Warning, Category: "certificates", RuleCode: "CERT-004",
				Description: fmt.Sprintf("TLS secret %s has a malformed certificate: %v", ref, err), Resource: ref,
				Recommendation: "regenerate or replace the certificate",
			}
			checks = append(checks, checkFromIssues("Secret", ref, []report.Issue{issue}))
			issues = append(issues, issue)
			continue
		}

		daysToExpiry := int(cert.NotAfter.Sub(now).Hours() / 24)
		table = append(table, report.CertificateRow{Resource: ref, DaysToExpiry: daysToExpiry, Expired: daysToExpiry < 0})

		var secretIssues []report.Issue
		switch {
		case daysToExpiry < 0:
			secretIssues = append(secretIssues, report.Issue{
				Severity: report.Critical, Category: "certificates", RuleCode: "CERT-003",
				Description: fmt.Sprintf("TLS certificate %s expired %d day(s) ago", ref, -daysToExpiry), Resource: ref,
				Recommendation: "rotate the certificate immediately",
			})
		case daysToExpiry < certExpiryWarnDays:
			secretIssues = append(secretIssues, report.Issue{
				Severity: report.Warning, Category: "certificates", RuleCode: "CERT-002",
				Description: fmt.Sprintf("TLS certificate %s expires in %d day(s)", ref, daysToExpiry), Resource: ref,
				Recommendation: "schedule a rotation before expiry",
			})
		}
		checks = append(checks, checkFromIssues("Secret", ref, secretIssues))
		issues = append(issues, secretIssues...)
	}

	res = seal(res, checks, issues)
	res.CertificateTable = table
	return res
}

func decodeLeafCert(data []byte) (*x509.Certificate, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty tls.crt")
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}
