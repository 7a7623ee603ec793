package errs

import (
	"errors"
	"net/http"
)

// Code identifies a business-rule failure. Codes are stable strings so
// clients can switch on them regardless of the message text.
type Code string

const (
	InvalidRequest      Code = "INVALID_REQUEST"
	ExternalAPIError    Code = "EXTERNAL_API_ERROR"
	InternalServerError Code = "INTERNAL_SERVER_ERROR"

	InvalidCartItem      Code = "INVALID_CART_ITEM"
	CartItemNotSameStore Code = "CART_ITEM_NOT_SAME_STORE"
	CartNotFound         Code = "CART_NOT_FOUND"
	CartItemNotFound     Code = "CART_ITEM_NOT_FOUND"

	StoreClosed                  Code = "STORE_CLOSED"
	StoreNotFound                Code = "STORE_NOT_FOUND"
	NotStoreOwner                Code = "NOT_STORE_OWNER"
	MenuNotFound                 Code = "MENU_NOT_FOUND"
	AddressNotFound              Code = "ADDRESS_NOT_FOUND"
	NoCoordinatesFoundForAddress Code = "NO_COORDINATES_FOUND_FOR_ADDRESS"
	OutOfDeliveryArea            Code = "OUT_OF_DELIVERY_AREA"

	OrderNotFound           Code = "ORDER_NOT_FOUND"
	InvalidQuantity         Code = "INVALID_QUANTITY"
	InvalidPrice            Code = "INVALID_PRICE"
	CanNotChangeOrderStatus Code = "CAN_NOT_CHANGE_ORDER_STATUS"

	AlreadyExistDelivery       Code = "ALREADY_EXIST_DELIVERY"
	NotFoundDelivery           Code = "NOT_FOUND_DELIVERY"
	NotOwnerDelivery           Code = "NOT_OWNER_DELIVERY"
	CanNotChangeDeliveryStatus Code = "CAN_NOT_CHANGE_DELIVERY_STATUS"

	UserNotFound    Code = "USER_NOT_FOUND"
	PartnerNotFound Code = "PARTNER_NOT_FOUND"
	RiderNotFound   Code = "RIDER_NOT_FOUND"

	FileUploadFailed Code = "FILE_UPLOAD_FAILED"
)

var catalog = map[Code]struct {
	status  int
	message string
}{
	InvalidRequest:      {http.StatusBadRequest, "invalid request"},
	ExternalAPIError:    {http.StatusInternalServerError, "external API error"},
	InternalServerError: {http.StatusInternalServerError, "internal server error"},

	InvalidCartItem:      {http.StatusBadRequest, "invalid cart item"},
	CartItemNotSameStore: {http.StatusBadRequest, "cart items must belong to a single store"},
	CartNotFound:         {http.StatusNotFound, "cart not found"},
	CartItemNotFound:     {http.StatusNotFound, "cart item not found"},

	StoreClosed:                  {http.StatusBadRequest, "store is closed"},
	StoreNotFound:                {http.StatusNotFound, "store not found"},
	NotStoreOwner:                {http.StatusBadRequest, "not the store owner"},
	MenuNotFound:                 {http.StatusNotFound, "menu not found"},
	AddressNotFound:              {http.StatusNotFound, "delivery address not found"},
	NoCoordinatesFoundForAddress: {http.StatusUnprocessableEntity, "no coordinates found for address"},
	OutOfDeliveryArea:            {http.StatusBadRequest, "delivery address is out of the delivery area"},

	OrderNotFound:           {http.StatusNotFound, "order not found"},
	InvalidQuantity:         {http.StatusBadRequest, "invalid quantity"},
	InvalidPrice:            {http.StatusBadRequest, "invalid price"},
	CanNotChangeOrderStatus: {http.StatusBadRequest, "can not change order status"},

	AlreadyExistDelivery:       {http.StatusConflict, "delivery already exists for this order"},
	NotFoundDelivery:           {http.StatusNotFound, "delivery not found"},
	NotOwnerDelivery:           {http.StatusBadRequest, "not the owner of this delivery"},
	CanNotChangeDeliveryStatus: {http.StatusBadRequest, "can not change delivery status"},

	UserNotFound:    {http.StatusNotFound, "user not found"},
	PartnerNotFound: {http.StatusNotFound, "partner not found"},
	RiderNotFound:   {http.StatusNotFound, "rider not found"},

	FileUploadFailed: {http.StatusInternalServerError, "file upload failed"},
}

type Error struct {
	Code    Code
	Status  int
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

func New(code Code) *Error {
	if entry, ok := catalog[code]; ok {
		return &Error{Code: code, Status: entry.status, Message: entry.message}
	}
	return &Error{Code: code, Status: http.StatusInternalServerError, Message: string(code)}
}

// Is reports whether err is a business error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// From extracts a business error, or nil if err is not one.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
