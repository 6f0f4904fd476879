package dto

import "github.com/fieldserve/marketplace-api/internal/models"

type EligibleOrderDTO struct {
	ID            uint                  `json:"id"`
	Address       string                `json:"address"`
	Area          string                `json:"area"`
	City          string                `json:"city"`
	ScheduledDate string                `json:"scheduled_date"`
	ScheduledTime string                `json:"scheduled_time"`
	Amount        float64               `json:"amount"`
	Status        string                `json:"status"`
	Services      []models.OrderService `json:"services"`
}

func FromOrder(o models.Order) EligibleOrderDTO {
	return EligibleOrderDTO{
		ID:            o.ID,
		Address:       o.Address,
		Area:          o.Area,
		City:          o.City,
		ScheduledDate: o.ScheduledDate,
		ScheduledTime: o.ScheduledTime,
		Amount:        o.Amount,
		Status:        o.Status,
		Services:      o.Services,
	}
}
