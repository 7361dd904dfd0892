package models

// Aggregation row shapes returned by the reporting pipelines. The bson `_id`
// mapping mirrors the mongo $group stage keys.

// StockBranchSummary totals stock per branch.
type StockBranchSummary struct {
	Branch          Branch  `bson:"_id" json:"branch"`
	ItemCount       int     `bson:"itemCount" json:"itemCount"`
	TotalQuantityKg float64 `bson:"totalQuantityKg" json:"totalQuantityKg"`
	TotalStockValue float64 `bson:"totalStockValue" json:"totalStockValue"`
}

// StockProduceSummary totals stock per produce across branches.
type StockProduceSummary struct {
	ProduceName         string  `bson:"_id" json:"produceName"`
	TotalQuantityKg     float64 `bson:"totalQuantityKg" json:"totalQuantityKg"`
	AverageSellingPrice float64 `bson:"averageSellingPrice" json:"averageSellingPrice"`
	BranchCount         int     `bson:"branchCount" json:"branchCount"`
}

// StockTotals is the grand total over all branches.
type StockTotals struct {
	TotalItems      int     `json:"totalItems"`
	TotalQuantityKg float64 `json:"totalQuantityKg"`
	TotalStockValue float64 `json:"totalStockValue"`
}

// StockSummary is the full director/manager stock overview.
type StockSummary struct {
	ThresholdKg    float64               `json:"thresholdKg"`
	Totals         StockTotals           `json:"totals"`
	StockByBranch  []StockBranchSummary  `json:"stockByBranch"`
	StockByProduce []StockProduceSummary `json:"stockByProduce"`
	LowStockItems  []StockItem           `json:"lowStockItems"`
}

// CashSalesBranchSummary totals cash sales per branch.
type CashSalesBranchSummary struct {
	Branch          Branch  `bson:"_id" json:"branch"`
	SalesCount      int     `bson:"salesCount" json:"salesCount"`
	TotalCashAmount float64 `bson:"totalCashAmount" json:"totalCashAmount"`
	TotalTonnageKg  float64 `bson:"totalTonnageKg" json:"totalTonnageKg"`
}

// CreditSalesBranchSummary totals credit sales per branch.
type CreditSalesBranchSummary struct {
	Branch               Branch  `bson:"_id" json:"branch"`
	CreditSalesCount     int     `bson:"creditSalesCount" json:"creditSalesCount"`
	TotalCreditAmountDue float64 `bson:"totalCreditAmountDue" json:"totalCreditAmountDue"`
	TotalTonnageKg       float64 `bson:"totalCreditTonnageKg" json:"totalCreditTonnageKg"`
}

// SalesSummary is the director-only aggregated sales view.
type SalesSummary struct {
	CashByBranch   []CashSalesBranchSummary   `json:"cashByBranch"`
	CreditByBranch []CreditSalesBranchSummary `json:"creditByBranch"`
}

// ProcurementBranchSummary totals procurement per branch.
type ProcurementBranchSummary struct {
	Branch           Branch  `bson:"_id" json:"branch"`
	ProcurementCount int     `bson:"procurementCount" json:"procurementCount"`
	TotalTonnageKg   float64 `bson:"totalTonnageKg" json:"totalTonnageKg"`
	TotalCost        float64 `bson:"totalCost" json:"totalCost"`
	AverageCostPerKg float64 `bson:"averageCostPerKg" json:"averageCostPerKg"`
}

// ProcurementProduceSummary totals procurement per produce.
type ProcurementProduceSummary struct {
	ProduceName             string  `bson:"_id" json:"produceName"`
	TotalTonnageKg          float64 `bson:"totalTonnageKg" json:"totalTonnageKg"`
	TotalCost               float64 `bson:"totalCost" json:"totalCost"`
	AverageBuyingPricePerKg float64 `bson:"averageBuyingPricePerKg" json:"averageBuyingPricePerKg"`
	AverageSellingPrice     float64 `bson:"averageSellingPrice" json:"averageSellingPrice"`
}

// ProcurementTotals is the grand total over all branches.
type ProcurementTotals struct {
	TotalProcurements int     `json:"totalProcurements"`
	TotalTonnageKg    float64 `json:"totalTonnageKg"`
	TotalCost         float64 `json:"totalCost"`
}

// ProcurementSummary is the manager/director procurement overview.
type ProcurementSummary struct {
	Scope            string                      `json:"scope"`
	Totals           ProcurementTotals           `json:"totals"`
	SummaryByBranch  []ProcurementBranchSummary  `json:"summaryByBranch"`
	SummaryByProduce []ProcurementProduceSummary `json:"summaryByProduce"`
}
