package service

import (
	"context"
	"go-parking-facility/internal/model"
	"math"
	"time"
)

// ChargeCalculator 計算票券的收費明細：
// 停放時數、免費時數折抵、訂閱額度消耗與超額計費。
type ChargeCalculator interface {
	// Compute 不落地、不改狀態；now 在票券尚未記錄出場時間時作為暫定出場時間（試算用）
	Compute(ctx context.Context, ticket *model.Ticket, branch *model.Branch, sub *model.Subscription, freeHours float64, now time.Time) (*model.Charge, error)
}

type ChargeCalculatorImpl struct {
	rateResolver RateResolver
}

func NewChargeCalculator(rateResolver RateResolver) ChargeCalculator {
	return &ChargeCalculatorImpl{
		rateResolver: rateResolver,
	}
}

// roundHalfUp 四捨五入到小數兩位
func roundHalfUp(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}

func (c *ChargeCalculatorImpl) Compute(
	ctx context.Context,
	ticket *model.Ticket,
	branch *model.Branch,
	sub *model.Subscription,
	freeHours float64,
	now time.Time,
) (*model.Charge, error) {
	// 1. 停放時數：牆鐘時間，非營業時間
	exitTime := now
	if ticket.ExitTime != nil {
		exitTime = *ticket.ExitTime
	}
	totalHours := roundHalfUp(exitTime.Sub(ticket.EntryTime).Hours())
	if totalHours < 0 {
		totalHours = 0
	}
	if freeHours < 0 {
		freeHours = 0
	}

	// 2. 決定費率
	rate, err := c.rateResolver.Resolve(ctx, branch, sub)
	if err != nil {
		return nil, err
	}

	// 免費時數折抵後才計費；中間量保留全精度，金額只在最後乘法四捨五入一次
	billableHours := totalHours - freeHours
	if billableHours < 0 {
		billableHours = 0
	}

	charge := &model.Charge{
		TicketID:      ticket.ID,
		TotalHours:    totalHours,
		FreeHours:     freeHours,
		BillableHours: billableHours,
		RateApplied:   rate,
		Subtotal:      roundHalfUp(billableHours * rate),
	}

	// 3. 非訂閱車輛：計費時數 × 費率
	if !ticket.IsSubscriber || sub == nil || sub.Plan == nil {
		charge.TotalAmount = charge.Subtotal
		return charge, nil
	}

	// 4. 訂閱車輛：先扣本期剩餘額度，超出部分以費率計費。
	//    額度內的時數已由訂閱購買支付，不再重複收費。
	available := sub.Plan.MonthlyHours - sub.ConsumedHours
	if available < 0 {
		available = 0
	}

	hoursToConsume := billableHours
	if hoursToConsume <= available {
		charge.SubscriptionHoursConsumed = hoursToConsume
		charge.SubscriptionOverageHours = 0
	} else {
		charge.SubscriptionHoursConsumed = available
		charge.SubscriptionOverageHours = hoursToConsume - available
	}

	charge.OverageCharge = roundHalfUp(charge.SubscriptionOverageHours * rate)
	charge.TotalAmount = charge.OverageCharge

	return charge, nil
}
