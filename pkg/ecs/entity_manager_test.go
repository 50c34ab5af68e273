package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testTransformComponent struct {
	X, Z float64
}

type testTagComponent struct {
	Group string
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if em.EntityCount() != 2 {
		t.Errorf("Expected 2 live entities, got %d", em.EntityCount())
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testTransformComponent{X: 1.5, Z: 20})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testTransformComponent{}))
	if !found {
		t.Fatal("Component should be found")
	}

	retrieved := comp.(*testTransformComponent)
	if retrieved.X != 1.5 || retrieved.Z != 20 {
		t.Errorf("Component data mismatch, expected (1.5, 20), got (%f, %f)", retrieved.X, retrieved.Z)
	}
}

func TestGenericComponentAccess(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testTagComponent{Group: "generated/obstacles"})

	tag, ok := GetComponent[*testTagComponent](em, id)
	if !ok {
		t.Fatal("Generic GetComponent should find the component")
	}
	if tag.Group != "generated/obstacles" {
		t.Errorf("Expected group generated/obstacles, got %s", tag.Group)
	}

	if _, ok := GetComponent[*testTransformComponent](em, id); ok {
		t.Error("Should not find a component that was never added")
	}

	em.RemoveComponent(id, reflect.TypeOf(&testTagComponent{}))
	if HasComponent[*testTagComponent](em, id) {
		t.Error("Component should be removed")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testTransformComponent{})

	// 标记删除
	em.DestroyEntity(id)
	em.DestroyEntity(id) // 重复标记应被忽略

	// 清理前实体仍存在
	if !em.Exists(id) || !em.IsMarkedForDestroy(id) {
		t.Error("Entity should still exist and be marked before cleanup")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
	if em.IsMarkedForDestroy(id) {
		t.Error("Destroy mark should be cleared after cleanup")
	}
	if em.EntityCount() != 0 {
		t.Errorf("Expected 0 live entities, got %d", em.EntityCount())
	}
}

func TestDestroyUnknownEntity(t *testing.T) {
	em := NewEntityManager()
	em.DestroyEntity(42)
	if em.IsMarkedForDestroy(42) {
		t.Error("Unknown entity should not be marked")
	}
}

func TestGetEntitiesWithIsSorted(t *testing.T) {
	em := NewEntityManager()

	var ids []EntityID
	for i := 0; i < 50; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testTransformComponent{X: float64(i)})
		if i%2 == 0 {
			em.AddComponent(id, &testTagComponent{})
		}
		ids = append(ids, id)
	}

	all := GetEntitiesWith1[*testTransformComponent](em)
	if len(all) != 50 {
		t.Fatalf("Expected 50 entities, got %d", len(all))
	}
	for i := range all {
		if all[i] != ids[i] {
			t.Fatalf("Query result should be ordered by id, index %d: expected %d got %d", i, ids[i], all[i])
		}
	}

	tagged := GetEntitiesWith2[*testTransformComponent, *testTagComponent](em)
	if len(tagged) != 25 {
		t.Errorf("Expected 25 entities with both components, got %d", len(tagged))
	}
	for i := 1; i < len(tagged); i++ {
		if tagged[i-1] >= tagged[i] {
			t.Fatal("Query result should be strictly increasing")
		}
	}
}

func TestDestroyMultipleEntities(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	id2 := em.CreateEntity()
	id3 := em.CreateEntity()

	em.AddComponent(id1, &testTransformComponent{})
	em.AddComponent(id2, &testTransformComponent{})
	em.AddComponent(id3, &testTransformComponent{})

	em.DestroyEntity(id1)
	em.DestroyEntity(id3)
	em.RemoveMarkedEntities()

	if em.Exists(id1) {
		t.Error("id1 should be removed")
	}
	if !em.Exists(id2) {
		t.Error("id2 should still exist")
	}
	if em.Exists(id3) {
		t.Error("id3 should be removed")
	}
}
