package economy

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreDebitConditional(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Credit(ctx, 1, 100); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	ok, newBalance, err := store.Debit(ctx, 1, 60)
	if err != nil || !ok || newBalance != 40 {
		t.Fatalf("Debit(60) = (%v, %d, %v), ожидалось (true, 40, nil)", ok, newBalance, err)
	}

	// Недостаточно средств: отказ без изменения баланса
	ok, _, err = store.Debit(ctx, 1, 41)
	if err != nil || ok {
		t.Fatalf("Debit(41) при балансе 40 = (%v, %v), ожидался отказ", ok, err)
	}

	a, err := store.GetOrCreateAccount(ctx, 1)
	if err != nil {
		t.Fatalf("GetOrCreateAccount: %v", err)
	}
	if a.Balance != 40 {
		t.Errorf("баланс после отказа = %d, ожидалось 40", a.Balance)
	}
}

func TestMemoryStoreDebitConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Credit(ctx, 1, 50); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	const workers = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _, err := store.Debit(ctx, 1, 1)
			if err != nil {
				t.Errorf("Debit: %v", err)
				return
			}
			if ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded != 50 {
		t.Errorf("успешных списаний = %d, ожидалось ровно 50", succeeded)
	}
	a, _ := store.GetOrCreateAccount(ctx, 1)
	if a.Balance != 0 {
		t.Errorf("итоговый баланс = %d, ожидалось 0", a.Balance)
	}
}

func TestMemoryStoreApplyWorkCooldown(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	cooldown := 30 * time.Minute

	// Свежий счёт: баланс 0, программа не использована — первая смена
	// антикризисная
	res, err := store.ApplyWork(ctx, 1, 100, cooldown)
	if err != nil {
		t.Fatalf("ApplyWork: %v", err)
	}
	if !res.OK || !res.Bailout || res.NewBalance != 100 {
		t.Fatalf("первая смена = %+v, ожидалась антикризисная с балансом 100", res)
	}

	// Сразу ещё раз: кулдаун
	res, err = store.ApplyWork(ctx, 1, 100, cooldown)
	if err != nil {
		t.Fatalf("ApplyWork: %v", err)
	}
	if res.OK {
		t.Fatal("вторая смена подряд прошла, ожидался кулдаун")
	}
	if res.Remaining != cooldown {
		t.Errorf("Remaining = %v, ожидалось %v", res.Remaining, cooldown)
	}

	// Через 29 минут всё ещё кулдаун
	current = current.Add(29 * time.Minute)
	res, _ = store.ApplyWork(ctx, 1, 100, cooldown)
	if res.OK {
		t.Fatal("смена за минуту до конца кулдауна прошла")
	}
	if res.Remaining != time.Minute {
		t.Errorf("Remaining = %v, ожидалась 1 минута", res.Remaining)
	}

	// Через 30 минут — обычная смена
	current = current.Add(time.Minute)
	res, _ = store.ApplyWork(ctx, 1, 70, cooldown)
	if !res.OK || res.Bailout || res.NewBalance != 170 {
		t.Fatalf("смена после кулдауна = %+v, ожидалась обычная с балансом 170", res)
	}
}

func TestMemoryStoreBailoutOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	// Первая смена на нулевом балансе антикризисная
	res, err := store.ApplyWork(ctx, 1, 100, 30*time.Minute)
	if err != nil || !res.Bailout {
		t.Fatalf("ожидалась антикризисная смена, res=%+v err=%v", res, err)
	}

	// Баланс снова обнулился, но программа уже использована:
	// обхода кулдауна нет
	if ok, _, _ := store.Debit(ctx, 1, 100); !ok {
		t.Fatal("Debit(100) не прошёл")
	}
	res, err = store.ApplyWork(ctx, 1, 100, 30*time.Minute)
	if err != nil {
		t.Fatalf("ApplyWork: %v", err)
	}
	if res.OK {
		t.Fatal("повторная антикризисная смена прошла, ожидался кулдаун")
	}

	// Перевзвод флага (проигрыш ва-банк) снова открывает программу
	if err := store.SetBailoutFlag(ctx, 1, false); err != nil {
		t.Fatalf("SetBailoutFlag: %v", err)
	}
	res, _ = store.ApplyWork(ctx, 1, 100, 30*time.Minute)
	if !res.OK || !res.Bailout {
		t.Fatalf("после перевзвода = %+v, ожидалась антикризисная смена", res)
	}
}

func TestMemoryStoreExecuteTransferConservation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Credit(ctx, 1, 1000); err != nil {
		t.Fatalf("Credit: %v", err)
	}

	out, err := store.ExecuteTransfer(ctx, &TransferExec{
		FromUserID: 1, ToUserID: 2, Amount: 100, Fee: 10,
	})
	if err != nil {
		t.Fatalf("ExecuteTransfer: %v", err)
	}
	if !out.OK {
		t.Fatal("перевод отклонён при достаточном балансе")
	}
	if out.SenderBalance != 890 {
		t.Errorf("баланс отправителя = %d, ожидалось 890", out.SenderBalance)
	}
	if out.ReceiverBalance != 100 {
		t.Errorf("баланс получателя = %d, ожидалось 100", out.ReceiverBalance)
	}

	// Комиссия сожжена: сумма балансов уменьшилась ровно на fee
	if got := out.SenderBalance + out.ReceiverBalance; got != 990 {
		t.Errorf("сумма балансов = %d, ожидалось 990 (комиссия сожжена)", got)
	}

	// Недостаточно средств на amount+fee: отказ без движения денег
	out, err = store.ExecuteTransfer(ctx, &TransferExec{
		FromUserID: 2, ToUserID: 1, Amount: 100, Fee: 10,
	})
	if err != nil || out.OK {
		t.Fatalf("перевод 110 при балансе 100 = (%+v, %v), ожидался отказ", out, err)
	}
	a, _ := store.GetOrCreateAccount(ctx, 2)
	if a.Balance != 100 {
		t.Errorf("баланс после отказа = %d, ожидалось 100", a.Balance)
	}
}

func TestMemoryStoreDailyTransferTotals(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	dayStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	store.Credit(ctx, 1, 10000)

	// Вчерашний перевод не считается
	store.now = func() time.Time { return current.Add(-24 * time.Hour) }
	store.ExecuteTransfer(ctx, &TransferExec{FromUserID: 1, ToUserID: 2, Amount: 500})

	store.now = func() time.Time { return current }
	store.ExecuteTransfer(ctx, &TransferExec{FromUserID: 1, ToUserID: 2, Amount: 100})
	store.ExecuteTransfer(ctx, &TransferExec{FromUserID: 1, ToUserID: 3, Amount: 200})

	count, total, err := store.DailyTransferTotals(ctx, 1, dayStart)
	if err != nil {
		t.Fatalf("DailyTransferTotals: %v", err)
	}
	if count != 2 || total != 300 {
		t.Errorf("итоги дня = (%d, %d), ожидалось (2, 300)", count, total)
	}
}

func TestMemoryStoreTopBalances(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Credit(ctx, 1, 100)
	store.Credit(ctx, 2, 300)
	store.Credit(ctx, 3, 200)

	entries, err := store.TopBalances(ctx, 2)
	if err != nil {
		t.Fatalf("TopBalances: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, ожидалось 2", len(entries))
	}
	if entries[0].UserID != 2 || entries[1].UserID != 3 {
		t.Errorf("порядок = [%d, %d], ожидалось [2, 3]", entries[0].UserID, entries[1].UserID)
	}
}
