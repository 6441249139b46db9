package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly24/backoffice/internal/model"
)

func TestInfantUnmarshalAcceptsBothForms(t *testing.T) {
	var p model.Passenger
	// Older rows store bare name strings, newer ones store objects.
	raw := `{"name":"Amina","infants":["Sara",{"name":"Yusuf"}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.Len(t, p.Infants, 2)
	assert.Equal(t, "Sara", p.Infants[0].Name)
	assert.Equal(t, "Yusuf", p.Infants[1].Name)
}

func TestPricingTotal(t *testing.T) {
	p := model.DefaultPricing()

	assert.Equal(t, 150, p.Total(model.PassengerAdult, 0)) // 130+10+10
	assert.Equal(t, 110, p.Total(model.PassengerChild, 0)) // 90+10+10
	assert.Equal(t, 190, p.Total(model.PassengerAdult, 2)) // 130+40+10+10
}
