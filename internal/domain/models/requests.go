package models

// Requests for the analysis HTTP endpoints. Defined in domain for
// consistency and reuse.

type AnalyzeRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	TF     string `query:"tf" json:"tf" default:"H1" validate:"oneof=M5 M15 H1 H4 D1"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=30,lte=5000"`
	HTF    string `query:"htf" json:"htf" validate:"omitempty,oneof=M15 H1 H4 D1"`
}

type SignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	TF     string `query:"tf" json:"tf" default:"H1" validate:"oneof=M5 M15 H1 H4 D1"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=30,lte=5000"`
}

type ScanRequest struct {
	TF       string `query:"tf" json:"tf" default:"H1" validate:"oneof=M5 M15 H1 H4 D1"`
	MinScore int    `query:"min_score" json:"min_score" default:"40" validate:"gte=0,lte=100"`
}

type BarsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	TF     string `query:"tf" json:"tf" default:"H1" validate:"oneof=M5 M15 H1 H4 D1"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"1000" validate:"gte=1,lte=50000"`
}
