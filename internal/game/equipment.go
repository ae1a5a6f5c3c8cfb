package game

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// equippedLuckTx sums luck bonuses across equipped items only. The raw
// luck stat deliberately stays out of the star-upgrade roll.
func equippedLuckTx(ctx context.Context, tx pgx.Tx, playerID string) (int, error) {
	rows, err := tx.Query(ctx, `
		SELECT item_code FROM game.player_items
		WHERE player_id = $1 AND equipped
	`, playerID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	luck := 0
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return 0, err
		}
		if spec, ok := itemByCode(code); ok {
			luck += spec.Luck
		}
	}
	return luck, rows.Err()
}

// BuyItem purchases one unit from the shop catalog. Blocked while the
// company is demoralized, same as recruiting.
func (s *Service) BuyItem(ctx context.Context, in ShopInput) (ShopResult, error) {
	spec, ok := itemByCode(in.ItemCode)
	if !ok {
		return ShopResult{}, ErrItemNotFound
	}
	var out ShopResult
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, in.PlayerID, in.IdempotencyKey, "buy_item"); err != nil {
			return err
		}
		p, err := loadPlayerTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		resources, err := loadCompanyTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		if resources.Bankrupt {
			return ErrGameOver
		}
		if resources.Morale <= 0 {
			return ErrDemoralized
		}
		if p.CashCents < spec.PriceCents {
			return ErrInsufficientFunds
		}
		p.CashCents -= spec.PriceCents

		var owned int
		if err := tx.QueryRow(ctx, `
			INSERT INTO game.player_items (player_id, item_code, quantity, equipped)
			VALUES ($1, $2, 1, false)
			ON CONFLICT (player_id, item_code)
			DO UPDATE SET quantity = game.player_items.quantity + 1
			RETURNING quantity
		`, in.PlayerID, spec.Code).Scan(&owned); err != nil {
			return err
		}
		if err := appendTransactionIntent(ctx, tx, in.PlayerID, "buy_item:"+spec.Code, -spec.PriceCents); err != nil {
			return err
		}
		if err := p.saveTx(ctx, tx, s.tuning.CashFloorCents); err != nil {
			return err
		}
		out = ShopResult{ItemCode: spec.Code, CashCents: p.CashCents, Owned: owned}
		return nil
	})
	if err != nil {
		return ShopResult{}, err
	}
	s.log.Info("item bought", "player_id", in.PlayerID, "item", spec.Code)
	return out, nil
}

// SellItem sells one unit back at half price. Selling the last equipped
// copy unequips it.
func (s *Service) SellItem(ctx context.Context, in ShopInput) (ShopResult, error) {
	spec, ok := itemByCode(in.ItemCode)
	if !ok {
		return ShopResult{}, ErrItemNotFound
	}
	payout := spec.PriceCents / 2
	var out ShopResult
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		if err := claimIdempotency(ctx, tx, in.PlayerID, in.IdempotencyKey, "sell_item"); err != nil {
			return err
		}
		p, err := loadPlayerTx(ctx, tx, in.PlayerID)
		if err != nil {
			return err
		}
		var owned int
		err = tx.QueryRow(ctx, `
			UPDATE game.player_items
			SET quantity = quantity - 1,
			    equipped = equipped AND quantity > 1
			WHERE player_id = $1 AND item_code = $2 AND quantity > 0
			RETURNING quantity
		`, in.PlayerID, spec.Code).Scan(&owned)
		if err == pgx.ErrNoRows {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		p.CashCents += payout
		if err := appendTransactionIntent(ctx, tx, in.PlayerID, "sell_item:"+spec.Code, payout); err != nil {
			return err
		}
		if err := p.saveTx(ctx, tx, s.tuning.CashFloorCents); err != nil {
			return err
		}
		out = ShopResult{ItemCode: spec.Code, CashCents: p.CashCents, Owned: owned}
		return nil
	})
	if err != nil {
		return ShopResult{}, err
	}
	s.log.Info("item sold", "player_id", in.PlayerID, "item", spec.Code)
	return out, nil
}

// EquipItem equips an owned item, displacing whatever held the slot.
func (s *Service) EquipItem(ctx context.Context, playerID, itemCode string) error {
	spec, ok := itemByCode(itemCode)
	if !ok {
		return ErrItemNotFound
	}
	err := s.runSerializable(ctx, func(tx pgx.Tx) error {
		var owned int
		err := tx.QueryRow(ctx, `
			SELECT quantity FROM game.player_items
			WHERE player_id = $1 AND item_code = $2
			FOR UPDATE
		`, playerID, spec.Code).Scan(&owned)
		if err == pgx.ErrNoRows {
			return ErrItemNotFound
		}
		if err != nil {
			return err
		}
		if owned == 0 {
			return ErrItemNotFound
		}
		// Slots are catalog properties, not rows; unequip slot-mates here.
		for _, other := range itemCatalog {
			if other.Slot != spec.Slot || other.Code == spec.Code {
				continue
			}
			if _, err := tx.Exec(ctx, `
				UPDATE game.player_items SET equipped = false
				WHERE player_id = $1 AND item_code = $2 AND equipped
			`, playerID, other.Code); err != nil {
				return err
			}
		}
		_, err = tx.Exec(ctx, `
			UPDATE game.player_items SET equipped = true
			WHERE player_id = $1 AND item_code = $2
		`, playerID, spec.Code)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("item equipped", "player_id", playerID, "item", spec.Code)
	return nil
}

// Shop lists the catalog annotated with ownership and equip state.
func (s *Service) Shop(ctx context.Context, playerID string) ([]ShopItemView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT item_code, quantity, equipped FROM game.player_items
		WHERE player_id = $1
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	type state struct {
		qty      int
		equipped bool
	}
	owned := make(map[string]state)
	for rows.Next() {
		var code string
		var st state
		if err := rows.Scan(&code, &st.qty, &st.equipped); err != nil {
			return nil, err
		}
		owned[code] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]ShopItemView, 0, len(itemCatalog))
	for _, spec := range itemCatalog {
		view := ShopItemView{
			Code:       spec.Code,
			Name:       spec.Name,
			Slot:       spec.Slot,
			PriceCents: spec.PriceCents,
			StatBlock: StatBlock{
				Charisma:     spec.Charisma,
				Intelligence: spec.Intelligence,
				Luck:         spec.Luck,
				Negotiation:  spec.Negotiation,
			},
		}
		if st, ok := owned[spec.Code]; ok {
			view.Owned = st.qty
			view.Equipped = st.equipped
		}
		out = append(out, view)
	}
	return out, nil
}
