package order

import "strings"

// ShippingAddress 收货地址值对象
type ShippingAddress struct {
	address    string
	city       string
	country    string
	postalCode string
}

// NewShippingAddress 地址、城市、国家必填，邮编可选
func NewShippingAddress(address, city, country, postalCode string) (ShippingAddress, error) {
	address = strings.TrimSpace(address)
	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)

	switch {
	case address == "":
		return ShippingAddress{}, NewInvalidShippingAddressError("address")
	case city == "":
		return ShippingAddress{}, NewInvalidShippingAddressError("city")
	case country == "":
		return ShippingAddress{}, NewInvalidShippingAddressError("country")
	}

	return ShippingAddress{
		address:    address,
		city:       city,
		country:    country,
		postalCode: strings.TrimSpace(postalCode),
	}, nil
}

func (a ShippingAddress) Address() string    { return a.address }
func (a ShippingAddress) City() string       { return a.city }
func (a ShippingAddress) Country() string    { return a.country }
func (a ShippingAddress) PostalCode() string { return a.postalCode }

func (a ShippingAddress) Equals(other ShippingAddress) bool {
	return a == other
}

// RebuildShippingAddress 仓储层重建地址，不做校验
func RebuildShippingAddress(address, city, country, postalCode string) ShippingAddress {
	return ShippingAddress{address: address, city: city, country: country, postalCode: postalCode}
}
