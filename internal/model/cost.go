package model

type CostCategory string

const (
	CostCategoryMaterial  CostCategory = "material"
	CostCategoryOutsource CostCategory = "outsource"
	CostCategoryEquipment CostCategory = "equipment"
	CostCategoryOther     CostCategory = "other"
)

var costCategoryLabels = map[CostCategory]string{
	CostCategoryMaterial:  "材料費",
	CostCategoryOutsource: "外注費",
	CostCategoryEquipment: "機材費",
	CostCategoryOther:     "その他経費",
}

func (c CostCategory) Valid() bool {
	_, ok := costCategoryLabels[c]
	return ok
}

func (c CostCategory) Label() string {
	if label, ok := costCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

type Cost struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	Category    CostCategory `json:"category"`
	Description string       `json:"description"`
	Amount      int64        `json:"amount"`
	Date        string       `json:"date"`
	Vendor      string       `json:"vendor"`
}

type QuantityCategory string

const (
	QuantityCategoryLabor   QuantityCategory = "labor"
	QuantityCategoryVehicle QuantityCategory = "vehicle"
)

func (c QuantityCategory) Valid() bool {
	return c == QuantityCategoryLabor || c == QuantityCategoryVehicle
}

// Unit is person-days for labor and vehicle-days for vehicles.
func (c QuantityCategory) Unit() string {
	if c == QuantityCategoryVehicle {
		return "台日"
	}
	return "人日"
}

func (c QuantityCategory) Label() string {
	if c == QuantityCategoryVehicle {
		return "車両"
	}
	return "人工"
}

type Quantity struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"projectId"`
	Category    QuantityCategory `json:"category"`
	Description string           `json:"description"`
	Quantity    float64          `json:"quantity"`
	Date        string           `json:"date"`
	Note        string           `json:"note"`
	VehicleID   string           `json:"vehicleId,omitempty"`
}

type Vehicle struct {
	ID           string `json:"id"`
	Registration string `json:"registration"`
}
