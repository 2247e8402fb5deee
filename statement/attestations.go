package statement

import (
	"github.com/pilacorp/go-witness-sdk/subject"
)

// BasicImageAttestationStatement attests an image.
type BasicImageAttestationStatement struct {
	Subject subject.Subjects `json:"subject"`
	Src     string           `json:"src"`
}

func (s *BasicImageAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *BasicImageAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	return BasicImageAttestation, map[string]interface{}{"id": id, "src": s.Src}, nil
}

func (s *BasicImageAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// BasicPostAttestationStatement attests a post, optionally replying to another.
type BasicPostAttestationStatement struct {
	Subject subject.Subjects `json:"subject"`
	Body    string           `json:"body"`
	Title   string           `json:"title"`
	ReplyTo *string          `json:"reply_to,omitempty"`
}

func (s *BasicPostAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *BasicPostAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	m := map[string]interface{}{"id": id, "body": s.Body, "title": s.Title}
	if s.ReplyTo != nil {
		m["reply_to"] = *s.ReplyTo
	}
	return BasicPostAttestation, m, nil
}

func (s *BasicPostAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// BasicProfileAttestationStatement attests a user profile.
type BasicProfileAttestationStatement struct {
	Subject     subject.Subjects `json:"subject"`
	Username    string           `json:"username"`
	Description *string          `json:"description,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Website     *string          `json:"website,omitempty"`
}

func (s *BasicProfileAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *BasicProfileAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	m := map[string]interface{}{"id": id, "username": s.Username}
	if s.Description != nil {
		m["description"] = *s.Description
	}
	if s.Image != nil {
		m["image"] = *s.Image
	}
	if s.Website != nil {
		if err := validateURL("website", *s.Website); err != nil {
			return "", nil, err
		}
		m["website"] = *s.Website
	}
	return BasicProfileAttestation, m, nil
}

func (s *BasicProfileAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// BasicTagAttestationStatement tags users in a post.
type BasicTagAttestationStatement struct {
	Subject subject.Subjects `json:"subject"`
	Post    string           `json:"post"`
	Users   []string         `json:"users"`
}

func (s *BasicTagAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *BasicTagAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	users := s.Users
	if users == nil {
		users = []string{}
	}
	return BasicTagAttestation, map[string]interface{}{"id": id, "post": s.Post, "users": users}, nil
}

func (s *BasicTagAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// BookReviewAttestationStatement reviews a book.
type BookReviewAttestationStatement struct {
	Subject subject.Subjects `json:"subject"`
	Link    string           `json:"link"`
	Rating  int64            `json:"rating"`
	Review  string           `json:"review"`
	Title   string           `json:"title"`
}

func (s *BookReviewAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *BookReviewAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	if err := validateURL("link", s.Link); err != nil {
		return "", nil, err
	}
	return BookReviewAttestation, map[string]interface{}{
		"id":     id,
		"link":   s.Link,
		"rating": s.Rating,
		"review": s.Review,
		"title":  s.Title,
	}, nil
}

func (s *BookReviewAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// DappPreferencesAttestationStatement records application preferences.
type DappPreferencesAttestationStatement struct {
	Subject  subject.Subjects `json:"subject"`
	DarkMode bool             `json:"dark_mode"`
}

func (s *DappPreferencesAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *DappPreferencesAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	return DappPreferencesAttestation, map[string]interface{}{"id": id, "dark_mode": s.DarkMode}, nil
}

func (s *DappPreferencesAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// FollowAttestationStatement follows a target.
type FollowAttestationStatement struct {
	Subject subject.Subjects `json:"subject"`
	Target  string           `json:"target"`
}

func (s *FollowAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *FollowAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	if err := validateURL("target", s.Target); err != nil {
		return "", nil, err
	}
	return FollowAttestation, map[string]interface{}{"id": id, "target": s.Target}, nil
}

func (s *FollowAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// LikeAttestationStatement likes a target.
type LikeAttestationStatement struct {
	Subject subject.Subjects `json:"subject"`
	Target  string           `json:"target"`
}

func (s *LikeAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *LikeAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	if err := validateURL("target", s.Target); err != nil {
		return "", nil, err
	}
	return LikeAttestation, map[string]interface{}{"id": id, "target": s.Target}, nil
}

func (s *LikeAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}

// ProgressBookLinkAttestationStatement records reading progress.
type ProgressBookLinkAttestationStatement struct {
	Subject  subject.Subjects `json:"subject"`
	Link     string           `json:"link"`
	Progress int64            `json:"progress"`
}

func (s *ProgressBookLinkAttestationStatement) StatementSubject() subject.Subjects { return s.Subject }

func (s *ProgressBookLinkAttestationStatement) ToStatement() (AttestationType, map[string]interface{}, error) {
	id, err := subjectDID(s.Subject)
	if err != nil {
		return "", nil, err
	}
	if err := validateURL("link", s.Link); err != nil {
		return "", nil, err
	}
	return ProgressBookLinkAttestation, map[string]interface{}{"id": id, "link": s.Link, "progress": s.Progress}, nil
}

func (s *ProgressBookLinkAttestationStatement) GenerateStatement() (string, error) {
	return GenerateAttestationStatement(s)
}
