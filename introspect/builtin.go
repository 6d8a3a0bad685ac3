package introspect

import (
	"github.com/dhamidi/kt2ts/classfile"
)

type builtin struct {
	access    classfile.AccessFlags
	signature string
}

const (
	publicInterface = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	publicClass     = classfile.AccPublic
	publicAbstract  = classfile.AccPublic | classfile.AccAbstract
	publicFinal     = classfile.AccPublic | classfile.AccFinal
)

// builtins describes library types that are never on a project classpath.
// Signatures use class signature syntax so type arguments flow through
// supertypes the same way they do for parsed classes.
var builtins = map[string]builtin{
	"java.lang.Object":       {publicClass, ""},
	"java.lang.Iterable":     {publicInterface, "<T:Ljava/lang/Object;>Ljava/lang/Object;"},
	"java.lang.Comparable":   {publicInterface, "<T:Ljava/lang/Object;>Ljava/lang/Object;"},
	"java.lang.CharSequence": {publicInterface, "Ljava/lang/Object;"},
	"java.io.Serializable":   {publicInterface, "Ljava/lang/Object;"},
	"java.lang.Cloneable":    {publicInterface, "Ljava/lang/Object;"},
	"java.lang.String":       {publicFinal, "Ljava/lang/Object;Ljava/io/Serializable;Ljava/lang/Comparable<Ljava/lang/String;>;Ljava/lang/CharSequence;"},
	"java.lang.Number":       {publicAbstract, "Ljava/lang/Object;Ljava/io/Serializable;"},
	"java.lang.Integer":      {publicFinal, "Ljava/lang/Number;Ljava/lang/Comparable<Ljava/lang/Integer;>;"},
	"java.lang.Long":         {publicFinal, "Ljava/lang/Number;Ljava/lang/Comparable<Ljava/lang/Long;>;"},
	"java.lang.Short":        {publicFinal, "Ljava/lang/Number;Ljava/lang/Comparable<Ljava/lang/Short;>;"},
	"java.lang.Byte":         {publicFinal, "Ljava/lang/Number;Ljava/lang/Comparable<Ljava/lang/Byte;>;"},
	"java.lang.Double":       {publicFinal, "Ljava/lang/Number;Ljava/lang/Comparable<Ljava/lang/Double;>;"},
	"java.lang.Float":        {publicFinal, "Ljava/lang/Number;Ljava/lang/Comparable<Ljava/lang/Float;>;"},
	"java.lang.Boolean":      {publicFinal, "Ljava/lang/Object;Ljava/io/Serializable;Ljava/lang/Comparable<Ljava/lang/Boolean;>;"},
	"java.lang.Character":    {publicFinal, "Ljava/lang/Object;Ljava/io/Serializable;Ljava/lang/Comparable<Ljava/lang/Character;>;"},
	"java.lang.Enum":         {publicAbstract, "<E:Ljava/lang/Enum<TE;>;>Ljava/lang/Object;Ljava/lang/Comparable<TE;>;Ljava/io/Serializable;"},
	"java.lang.Record":       {publicAbstract, "Ljava/lang/Object;"},

	"java.util.Collection":         {publicInterface, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TE;>;"},
	"java.util.List":               {publicInterface, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;"},
	"java.util.Set":                {publicInterface, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;"},
	"java.util.SortedSet":          {publicInterface, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Set<TE;>;"},
	"java.util.NavigableSet":       {publicInterface, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/SortedSet<TE;>;"},
	"java.util.Queue":              {publicInterface, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;"},
	"java.util.Deque":              {publicInterface, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Queue<TE;>;"},
	"java.util.RandomAccess":       {publicInterface, "Ljava/lang/Object;"},
	"java.util.AbstractCollection": {publicAbstract, "<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;"},
	"java.util.AbstractList":       {publicAbstract, "<E:Ljava/lang/Object;>Ljava/util/AbstractCollection<TE;>;Ljava/util/List<TE;>;"},
	"java.util.AbstractSet":        {publicAbstract, "<E:Ljava/lang/Object;>Ljava/util/AbstractCollection<TE;>;Ljava/util/Set<TE;>;"},
	"java.util.ArrayList":          {publicClass, "<E:Ljava/lang/Object;>Ljava/util/AbstractList<TE;>;Ljava/util/List<TE;>;Ljava/util/RandomAccess;"},
	"java.util.LinkedList":         {publicClass, "<E:Ljava/lang/Object;>Ljava/util/AbstractList<TE;>;Ljava/util/List<TE;>;Ljava/util/Deque<TE;>;"},
	"java.util.ArrayDeque":         {publicClass, "<E:Ljava/lang/Object;>Ljava/util/AbstractCollection<TE;>;Ljava/util/Deque<TE;>;"},
	"java.util.HashSet":            {publicClass, "<E:Ljava/lang/Object;>Ljava/util/AbstractSet<TE;>;Ljava/util/Set<TE;>;"},
	"java.util.LinkedHashSet":      {publicClass, "<E:Ljava/lang/Object;>Ljava/util/HashSet<TE;>;Ljava/util/Set<TE;>;"},
	"java.util.TreeSet":            {publicClass, "<E:Ljava/lang/Object;>Ljava/util/AbstractSet<TE;>;Ljava/util/NavigableSet<TE;>;"},
	"java.util.Map":                {publicInterface, "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;"},
	"java.util.AbstractMap":        {publicAbstract, "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Map<TK;TV;>;"},
	"java.util.HashMap":            {publicClass, "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/util/AbstractMap<TK;TV;>;Ljava/util/Map<TK;TV;>;"},
	"java.util.LinkedHashMap":      {publicClass, "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/util/HashMap<TK;TV;>;Ljava/util/Map<TK;TV;>;"},
	"java.util.TreeMap":            {publicClass, "<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/util/AbstractMap<TK;TV;>;Ljava/util/Map<TK;TV;>;"},

	"kotlin.Unit":   {publicFinal, "Ljava/lang/Object;"},
	"kotlin.Pair":   {publicFinal, "<A:Ljava/lang/Object;B:Ljava/lang/Object;>Ljava/lang/Object;Ljava/io/Serializable;"},
	"kotlin.Triple": {publicFinal, "<A:Ljava/lang/Object;B:Ljava/lang/Object;C:Ljava/lang/Object;>Ljava/lang/Object;Ljava/io/Serializable;"},
}

func builtinClass(name string) (*Class, bool) {
	b, ok := builtins[name]
	if !ok {
		return nil, false
	}
	c := &Class{Name: name, Access: b.access}
	if b.signature == "" {
		return c, true
	}
	sig, err := classfile.ParseClassSignature(b.signature)
	if err != nil {
		panic("introspect: bad builtin signature for " + name + ": " + err.Error())
	}
	c.TypeParams = sig.TypeParams
	c.Super = sig.Super
	c.Interfaces = sig.Interfaces
	return c, true
}
