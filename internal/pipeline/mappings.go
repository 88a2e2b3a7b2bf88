package pipeline

// mappings.go holds the static label-to-code tables used to canonicalize
// free-text classification labels from source files. Source systems emit the
// labels in English or Russian; both map to the same canonical code. The
// tables are immutable configuration: built once at startup and passed by
// reference into the transformers.

import "strings"

// DefaultOrderStatus is assigned when an order row carries no status label.
const DefaultOrderStatus = "NEW"

// Mappings canonicalizes classification labels. Lookup is case-insensitive;
// a label with no entry passes through as its upper-cased form, which makes
// the mapping idempotent for already-canonical input.
type Mappings struct {
	orderStatuses     map[string]string
	shipmentStatuses  map[string]string
	productCategories map[string]string
	paymentMethods    map[string]string
	vehicleTypes      map[string]string
}

// DefaultMappings returns the built-in bilingual label tables.
func DefaultMappings() *Mappings {
	return &Mappings{
		orderStatuses: map[string]string{
			"NEW": "NEW", "НОВЫЙ": "NEW",
			"CONFIRMED": "CONFIRMED", "ПОДТВЕРЖДЁН": "CONFIRMED",
			"PROCESSING": "PROCESSING", "В ОБРАБОТКЕ": "PROCESSING",
			"SHIPPED": "SHIPPED", "ОТПРАВЛЕН": "SHIPPED",
			"DELIVERED": "DELIVERED", "ДОСТАВЛЕН": "DELIVERED",
			"CANCELLED": "CANCELLED", "ОТМЕНЁН": "CANCELLED",
			"RETURNED": "RETURNED", "ВОЗВРАЩЁН": "RETURNED",
		},
		shipmentStatuses: map[string]string{
			"PREPARING": "PREPARING", "ПОДГОТОВКА": "PREPARING",
			"IN_TRANSIT": "IN_TRANSIT", "В ПУТИ": "IN_TRANSIT",
			"AT_WAREHOUSE": "AT_WAREHOUSE", "НА СКЛАДЕ": "AT_WAREHOUSE",
			"OUT_FOR_DELIVERY": "OUT_FOR_DELIVERY", "У КУРЬЕРА": "OUT_FOR_DELIVERY",
			"DELIVERED": "DELIVERED", "ДОСТАВЛЕН": "DELIVERED",
			"FAILED": "FAILED", "НЕ ДОСТАВЛЕН": "FAILED",
			"RETURNED": "RETURNED", "ВОЗВРАТ": "RETURNED",
		},
		productCategories: map[string]string{
			"ELECTRONICS": "ELECTRONICS", "ЭЛЕКТРОНИКА": "ELECTRONICS",
			"CLOTHING": "CLOTHING", "ОДЕЖДА": "CLOTHING",
			"HOME_GARDEN": "HOME_GARDEN", "ДОМ И САД": "HOME_GARDEN",
			"BEAUTY": "BEAUTY", "КРАСОТА": "BEAUTY",
			"SPORTS": "SPORTS", "СПОРТ": "SPORTS",
			"BOOKS": "BOOKS", "КНИГИ": "BOOKS",
			"KIDS": "KIDS", "ДЕТСКИЕ ТОВАРЫ": "KIDS",
			"FOOD": "FOOD", "ПРОДУКТЫ": "FOOD",
		},
		paymentMethods: map[string]string{
			"CARD_ONLINE": "CARD_ONLINE", "КАРТА ОНЛАЙН": "CARD_ONLINE",
			"CARD_ON_DELIVERY": "CARD_ON_DELIVERY", "КАРТА ПРИ ПОЛУЧЕНИИ": "CARD_ON_DELIVERY",
			"CASH": "CASH", "НАЛИЧНЫЕ": "CASH",
			"SBP": "SBP", "СБП": "SBP",
			"EWALLET": "EWALLET", "ЭЛЕКТРОННЫЙ КОШЕЛЁК": "EWALLET",
			"CREDIT": "CREDIT", "РАССРОЧКА": "CREDIT",
		},
		vehicleTypes: map[string]string{
			"VAN": "VAN", "ФУРГОН": "VAN",
			"TRUCK_SMALL": "TRUCK_SMALL", "МАЛЫЙ ГРУЗОВИК": "TRUCK_SMALL",
			"TRUCK_MEDIUM": "TRUCK_MEDIUM", "СРЕДНИЙ ГРУЗОВИК": "TRUCK_MEDIUM",
			"TRUCK_LARGE": "TRUCK_LARGE", "БОЛЬШОЙ ГРУЗОВИК": "TRUCK_LARGE",
			"MOTORCYCLE": "MOTORCYCLE", "МОТОЦИКЛ": "MOTORCYCLE",
		},
	}
}

func mapLabel(table map[string]string, label string) string {
	key := strings.ToUpper(strings.TrimSpace(label))
	if code, ok := table[key]; ok {
		return code
	}
	return key
}

// OrderStatus maps an order status label to its canonical code.
func (m *Mappings) OrderStatus(label string) string {
	return mapLabel(m.orderStatuses, label)
}

// ShipmentStatus maps a shipment status label to its canonical code.
func (m *Mappings) ShipmentStatus(label string) string {
	return mapLabel(m.shipmentStatuses, label)
}

// ProductCategory maps a category label to its canonical code.
func (m *Mappings) ProductCategory(label string) string {
	return mapLabel(m.productCategories, label)
}

// PaymentMethod maps a payment method label to its canonical code.
func (m *Mappings) PaymentMethod(label string) string {
	return mapLabel(m.paymentMethods, label)
}

// VehicleType maps a vehicle type label to its canonical code.
func (m *Mappings) VehicleType(label string) string {
	return mapLabel(m.vehicleTypes, label)
}
