package apperrors

import "errors"

// 驗證類錯誤：呼叫端修正輸入後可重試
var (
	ErrBranchNotFound      = errors.New("branch not found")
	ErrInactiveBranch      = errors.New("branch is inactive")
	ErrVehicleTypeNotFound = errors.New("vehicle type not found")
	ErrInvalidInput        = errors.New("invalid input")
)

// 容量類錯誤：高頻且預期中，不視為系統失敗
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// 一致性類錯誤：呼叫端誤用或與其他出場請求競爭
var (
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketNotInProgress   = errors.New("ticket not in progress")
	ErrExitAlreadyRecorded   = errors.New("exit already recorded")
	ErrDuplicateActiveTicket = errors.New("plate already has an active ticket at this branch")
)

// 設定類錯誤：對計費是致命的，必須中止出場流程
var ErrNoRateConfigured = errors.New("no hourly rate configured")

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrChargeNotFound       = errors.New("charge not found")
	ErrInternalServerError  = errors.New("internal server error")
)
