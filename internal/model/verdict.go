package model

// Verdict labels produced by the scoring engine and the jury contract.
const (
	VerdictFreelancerWin = "FREELANCER_WIN"
	VerdictClientWin     = "CLIENT_WIN"
	VerdictPartialRefund = "PARTIAL_REFUND"
)

// VerdictFromCode maps the uint8 verdict carried by DisputeResolved to
// its label. The contract enum is 0=PENDING, 1=CLIENT_WIN,
// 2=FREELANCER_WIN, 3=PARTIAL_REFUND; PENDING and unknown codes return
// an empty string.
func VerdictFromCode(code uint8) string {
	switch code {
	case 1:
		return VerdictClientWin
	case 2:
		return VerdictFreelancerWin
	case 3:
		return VerdictPartialRefund
	default:
		return ""
	}
}
