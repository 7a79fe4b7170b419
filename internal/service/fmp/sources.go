package fmp

import (
	"context"

	"RatePull/internal/domain/models"
	domrepo "RatePull/internal/domain/repository"
)

// QuoteSource fills the quote slot of a snapshot.
type QuoteSource struct{ c *Client }

func NewQuoteSource(c *Client) domrepo.SnapshotSource { return &QuoteSource{c: c} }

func (s *QuoteSource) Name() string { return "quote" }

func (s *QuoteSource) Fill(ctx context.Context, symbol string, snap *models.Snapshot) error {
	q, err := s.c.Quote(ctx, symbol)
	if err != nil {
		return err
	}
	snap.Quote = q
	return nil
}

// OutlookSource fills the company-outlook slot of a snapshot.
type OutlookSource struct{ c *Client }

func NewOutlookSource(c *Client) domrepo.SnapshotSource { return &OutlookSource{c: c} }

func (s *OutlookSource) Name() string { return "outlook" }

func (s *OutlookSource) Fill(ctx context.Context, symbol string, snap *models.Snapshot) error {
	o, err := s.c.Outlook(ctx, symbol)
	if err != nil {
		return err
	}
	snap.Outlook = o
	return nil
}

// ESGSource fills the ESG slot of a snapshot.
type ESGSource struct{ c *Client }

func NewESGSource(c *Client) domrepo.SnapshotSource { return &ESGSource{c: c} }

func (s *ESGSource) Name() string { return "esg" }

func (s *ESGSource) Fill(ctx context.Context, symbol string, snap *models.Snapshot) error {
	e, err := s.c.ESG(ctx, symbol)
	if err != nil {
		return err
	}
	snap.ESG = e
	return nil
}

// TechnicalSource fills the technical-indicator slot of a snapshot, capped
// to the most recent maxPoints readings.
type TechnicalSource struct {
	c         *Client
	days      int
	maxPoints int
}

func NewTechnicalSource(c *Client, days, maxPoints int) domrepo.SnapshotSource {
	if days <= 0 {
		days = 30
	}
	if maxPoints <= 0 {
		maxPoints = 30
	}
	return &TechnicalSource{c: c, days: days, maxPoints: maxPoints}
}

func (s *TechnicalSource) Name() string { return "technical" }

func (s *TechnicalSource) Fill(ctx context.Context, symbol string, snap *models.Snapshot) error {
	points, err := s.c.TechnicalIndicators(ctx, symbol, s.days)
	if err != nil {
		return err
	}
	if len(points) > s.maxPoints {
		points = points[:s.maxPoints]
	}
	snap.Technical = points
	return nil
}
