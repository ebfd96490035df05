package document

// FileCategory represents what role a file plays in production
type FileCategory string

const (
	CategoryDesign    FileCategory = "DESIGN"
	CategoryProof     FileCategory = "PROOF"
	CategoryFinal     FileCategory = "FINAL"
	CategoryReference FileCategory = "REFERENCE"
	CategoryInvoice   FileCategory = "INVOICE"
	CategoryContract  FileCategory = "CONTRACT"
	CategoryOther     FileCategory = "OTHER"
)

// IsValid checks if the FileCategory is a valid value
func (c FileCategory) IsValid() bool {
	switch c {
	case CategoryDesign, CategoryProof, CategoryFinal, CategoryReference,
		CategoryInvoice, CategoryContract, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of FileCategory
func (c FileCategory) String() string {
	return string(c)
}

// ApprovalState represents the review outcome of a file version
type ApprovalState string

const (
	ApprovalPending       ApprovalState = "PENDING"
	ApprovalApproved      ApprovalState = "APPROVED"
	ApprovalRejected      ApprovalState = "REJECTED"
	ApprovalNeedsRevision ApprovalState = "NEEDS_REVISION"
)

// IsValid checks if the ApprovalState is a valid value
func (s ApprovalState) IsValid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalNeedsRevision:
		return true
	}
	return false
}

// String returns the string representation of ApprovalState
func (s ApprovalState) String() string {
	return string(s)
}

// AccessLevel represents who can see a file
type AccessLevel string

const (
	AccessPublic   AccessLevel = "PUBLIC"
	AccessClient   AccessLevel = "CLIENT"
	AccessInternal AccessLevel = "INTERNAL"
	AccessPrivate  AccessLevel = "PRIVATE"
)

// IsValid checks if the AccessLevel is a valid value
func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessPublic, AccessClient, AccessInternal, AccessPrivate:
		return true
	}
	return false
}

// String returns the string representation of AccessLevel
func (a AccessLevel) String() string {
	return string(a)
}
