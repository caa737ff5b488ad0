package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type DateTestSuite struct {
	suite.Suite
}

func (s *DateTestSuite) TestParseAndFormat() {
	d, err := ParseDate("2024-12-01")
	s.Require().NoError(err)
	s.Equal("2024-12-01", d.String())
	s.Equal(NewDate(2024, time.December, 1), d)

	_, err = ParseDate("01/12/2024")
	s.Error(err)
	_, err = ParseDate("2024-02-30")
	s.Error(err)
}

func (s *DateTestSuite) TestDateOfDropsTimeOfDay() {
	ts := time.Date(2024, time.December, 1, 23, 59, 0, 0, time.FixedZone("BRT", -3*60*60))
	s.Equal(NewDate(2024, time.December, 1), DateOf(ts))
	s.True(DateOf(time.Time{}).IsZero())
}

func (s *DateTestSuite) TestOrdering() {
	a := NewDate(2024, time.December, 1)
	b := a.AddDays(4)

	s.True(a.Before(b))
	s.True(b.After(a))
	s.False(a.Before(a))
	s.True(a.Equal(NewDate(2024, time.December, 1)))
	s.Equal("2024-12-05", b.String())
	s.Equal("2024-11-30", a.AddDays(-1).String())
}

func (s *DateTestSuite) TestJSON() {
	payload, err := json.Marshal(struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}{Start: NewDate(2024, time.December, 1)})
	s.Require().NoError(err)
	s.JSONEq(`{"start":"2024-12-01","end":null}`, string(payload))

	var decoded struct {
		Start Date `json:"start"`
	}
	s.Require().NoError(json.Unmarshal([]byte(`{"start":"2025-01-15"}`), &decoded))
	s.Equal(NewDate(2025, time.January, 15), decoded.Start)

	s.Error(json.Unmarshal([]byte(`{"start":"15/01/2025"}`), &decoded))
	s.Error(json.Unmarshal([]byte(`{"start":20250115}`), &decoded))
}

func TestDateTestSuite(t *testing.T) {
	suite.Run(t, new(DateTestSuite))
}
