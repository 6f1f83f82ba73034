package schema

// Canonical field names used across the pipeline. Output tables reuse the
// header spellings of the legacy planning sheets.
const (
	FieldSKU         = "SKU"
	FieldSaleQty     = "Sale Qty"
	FieldOrderDate   = "Order Date"
	FieldWarehouseID = "Warehouse Id"
	FieldLiveStock   = "Live on Website"
)

// Sales-table field specs. Each fallback mirrors how the planning sheets are
// read when a header is missing: the identity column is assumed to come
// first, and a missing quantity column means every row is one unit sold.
var (
	SalesSKU = Spec{
		Canonical: FieldSKU,
		Aliases:   []string{"SKU", "SKU ID", "SkuId", "product_sku", "productsku"},
		Fallback:  FallbackFirstColumn,
	}

	SalesQty = Spec{
		Canonical: FieldSaleQty,
		Aliases:   []string{"Sale Qty", "SaleQty", "Qty", "Quantity", "SoldQty", "OrderQty"},
		Fallback:  FallbackConstant,
		Constant:  float64(1),
	}

	SalesOrderDate = Spec{
		Canonical: FieldOrderDate,
		Aliases:   []string{"Order Date", "OrderDate", "Date", "order_date"},
		Fallback:  FallbackNone,
	}
)

// Stock-table field specs. Warehouse id falls back to the second column only
// when one exists; available quantity falls back to the last column, which is
// where stock exports usually keep it.
var (
	StockSKU = Spec{
		Canonical: FieldSKU,
		Aliases:   []string{"SKU", "SKU ID", "product_sku", "productsku"},
		Fallback:  FallbackFirstColumn,
	}

	StockWarehouse = Spec{
		Canonical: FieldWarehouseID,
		Aliases:   []string{"Warehouse Id", "WarehouseId", "Warehouse", "Location Id", "LocationId", "FC Id"},
		Fallback:  FallbackSecondColumn,
	}

	StockLive = Spec{
		Canonical: FieldLiveStock,
		Aliases:   []string{"Live on Website", "LiveOnWebsite", "Live", "Available", "AvailableQty", "Stock", "Qty"},
		Fallback:  FallbackLastColumn,
	}
)
