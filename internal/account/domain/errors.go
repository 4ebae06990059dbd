package domain

import "errors"

var (
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPartyType = errors.New("invalid_party_type")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrNotFound         = errors.New("not_found")
)
