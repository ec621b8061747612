package repository

import (
	"testing"

	"github.com/user/cinehub/internal/model"
)

func TestWatchlistAddIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewWatchlistRepository(db)
	user := newTestUser(t, db, "alice@example.com")

	item := &model.WatchlistItem{
		UserID:    user.ID,
		MovieID:   "tt1160419",
		MovieType: model.OriginExternal,
		Title:     "Dune",
		Year:      "2021",
	}
	created, err := repo.Add(item)
	if err != nil {
		t.Fatalf("添加失败: %v", err)
	}
	if !created {
		t.Fatal("首次添加应实际写入")
	}

	// 重复添加是幂等空操作，不报错
	dup := &model.WatchlistItem{
		UserID:    user.ID,
		MovieID:   "tt1160419",
		MovieType: model.OriginExternal,
		Title:     "Dune (新快照)",
	}
	created, err = repo.Add(dup)
	if err != nil {
		t.Fatalf("重复添加不应报错: %v", err)
	}
	if created {
		t.Error("重复添加不应写入新行")
	}

	count, err := repo.CountByUser(user.ID)
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if count != 1 {
		t.Errorf("条目数 = %d, want 1", count)
	}
}

func TestWatchlistRemove(t *testing.T) {
	db := newTestDB(t)
	repo := NewWatchlistRepository(db)
	user := newTestUser(t, db, "alice@example.com")
	ref := model.NewExternalRef("tt1160419")

	if _, err := repo.Add(&model.WatchlistItem{
		UserID: user.ID, MovieID: ref.ID, MovieType: ref.Origin,
	}); err != nil {
		t.Fatalf("添加失败: %v", err)
	}

	removed, err := repo.Remove(user.ID, ref)
	if err != nil {
		t.Fatalf("移除失败: %v", err)
	}
	if !removed {
		t.Error("存在的条目应被移除")
	}

	// 再移除一次应报告未找到
	removed, err = repo.Remove(user.ID, ref)
	if err != nil {
		t.Fatalf("移除失败: %v", err)
	}
	if removed {
		t.Error("不存在的条目不应报告移除成功")
	}
}

func TestWatchlistRemoveAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewWatchlistRepository(db)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")

	for _, id := range []string{"tt0111161", "tt0068646", "custom_1"} {
		ref := model.ParseMovieRef(id)
		if _, err := repo.Add(&model.WatchlistItem{
			UserID: alice.ID, MovieID: ref.ID, MovieType: ref.Origin,
		}); err != nil {
			t.Fatalf("添加失败: %v", err)
		}
	}
	if _, err := repo.Add(&model.WatchlistItem{
		UserID: bob.ID, MovieID: "tt0111161", MovieType: model.OriginExternal,
	}); err != nil {
		t.Fatalf("添加失败: %v", err)
	}

	count, err := repo.RemoveAll(alice.ID)
	if err != nil {
		t.Fatalf("清空失败: %v", err)
	}
	if count != 3 {
		t.Errorf("清空删除行数 = %d, want 3", count)
	}

	remaining, err := repo.CountByUser(alice.ID)
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if remaining != 0 {
		t.Errorf("清空后剩余 = %d, want 0", remaining)
	}

	// 其他用户的清单不受影响
	bobCount, _ := repo.CountByUser(bob.ID)
	if bobCount != 1 {
		t.Errorf("其他用户条目数 = %d, want 1", bobCount)
	}
}

func TestWatchlistCheckMultiple(t *testing.T) {
	db := newTestDB(t)
	repo := NewWatchlistRepository(db)
	user := newTestUser(t, db, "alice@example.com")

	inList := model.NewExternalRef("tt0111161")
	localInList := model.NewLocalRef("7")
	for _, ref := range []model.MovieRef{inList, localInList} {
		if _, err := repo.Add(&model.WatchlistItem{
			UserID: user.ID, MovieID: ref.ID, MovieType: ref.Origin,
		}); err != nil {
			t.Fatalf("添加失败: %v", err)
		}
	}

	queried := []model.MovieRef{
		inList,
		localInList,
		model.NewExternalRef("tt9999999"), // 不在清单中
		model.NewExternalRef("7"),         // 与本地条目同 ID 但来源不同
	}
	membership, err := repo.CheckMultiple(user.ID, queried)
	if err != nil {
		t.Fatalf("批量检查失败: %v", err)
	}

	if len(membership) != 4 {
		t.Fatalf("返回结果数 = %d, 应覆盖每个查询引用", len(membership))
	}
	if !membership["tt0111161"] || !membership["custom_7"] {
		t.Errorf("在清单中的引用应为 true: %+v", membership)
	}
	if membership["tt9999999"] {
		t.Error("不在清单中的引用应为 false")
	}
	if membership["7"] {
		t.Error("来源不同的同名 ID 不应命中")
	}
}

func TestWatchlistPopularGroupsByReference(t *testing.T) {
	db := newTestDB(t)
	repo := NewWatchlistRepository(db)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")
	carol := newTestUser(t, db, "carol@example.com")

	// 同一部电影在不同用户处的快照可能不同，仍应并为一组计数
	snapshots := []struct {
		user  *model.User
		title string
	}{
		{alice, "Dune"},
		{bob, "Dune (2021)"},
		{carol, "Dune"},
	}
	for _, s := range snapshots {
		if _, err := repo.Add(&model.WatchlistItem{
			UserID: s.user.ID, MovieID: "tt1160419", MovieType: model.OriginExternal, Title: s.title,
		}); err != nil {
			t.Fatalf("添加失败: %v", err)
		}
	}
	if _, err := repo.Add(&model.WatchlistItem{
		UserID: alice.ID, MovieID: "tt0111161", MovieType: model.OriginExternal, Title: "The Shawshank Redemption",
	}); err != nil {
		t.Fatalf("添加失败: %v", err)
	}

	popular, err := repo.Popular(10)
	if err != nil {
		t.Fatalf("热门查询失败: %v", err)
	}
	if len(popular) != 2 {
		t.Fatalf("分组数 = %d, want 2: %+v", len(popular), popular)
	}
	if popular[0].MovieID != "tt1160419" || popular[0].Count != 3 {
		t.Errorf("首位 = %+v, want tt1160419 计数 3", popular[0])
	}
	if popular[1].Count != 1 {
		t.Errorf("次位计数 = %d, want 1", popular[1].Count)
	}
}

func TestWatchlistList(t *testing.T) {
	db := newTestDB(t)
	repo := NewWatchlistRepository(db)
	user := newTestUser(t, db, "alice@example.com")

	for _, id := range []string{"tt0000001", "tt0000002", "tt0000003"} {
		if _, err := repo.Add(&model.WatchlistItem{
			UserID: user.ID, MovieID: id, MovieType: model.OriginExternal,
		}); err != nil {
			t.Fatalf("添加失败: %v", err)
		}
	}

	items, err := repo.ListByUser(user.ID, 2, 0)
	if err != nil {
		t.Fatalf("列表失败: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("分页条数 = %d, want 2", len(items))
	}

	items, err = repo.ListByUser(user.ID, 2, 2)
	if err != nil {
		t.Fatalf("列表失败: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("第二页条数 = %d, want 1", len(items))
	}
}
