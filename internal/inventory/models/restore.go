package models

// RestoreStatus is the typed outcome of a restore call. Failure modes are
// explicit result variants returned to the caller, never internal panics.
type RestoreStatus string

const (
	RestoreStatusRestored       RestoreStatus = "restored"
	RestoreStatusNoMergeHistory RestoreStatus = "no_merge_history"
	RestoreStatusAlreadyExists  RestoreStatus = "already_exists"
	RestoreStatusPartialFailure RestoreStatus = "partial_failure"
	RestoreStatusFailed         RestoreStatus = "failed"
)

// RestoreResult reports the outcome of restoring a previously merged product.
// CandidateLinks lists the channel links currently attached to the surviving
// product from the original merge; the caller decides which, if any, to move
// back via a separate re-association call. Restore never auto-reassigns links.
type RestoreResult struct {
	Status         RestoreStatus     `json:"status"`
	Product        *CanonicalProduct `json:"product,omitempty"`
	KeptProductID  int               `json:"kept_product_id,omitempty"`
	CandidateLinks []ChannelLink     `json:"candidate_links,omitempty"`
	Err            error             `json:"-"`
}
